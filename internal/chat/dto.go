package chat

type SendMessageDTO struct {
	Message           string  `json:"message"`
	SelectedAccountID *string `json:"selected_account_id"`
}

type SendMessageResponse struct {
	Response string `json:"response"`
}

type HistoryResponse struct {
	History []ChatMessage `json:"history"`
}
