package chat

import (
	"fmt"
	"strings"

	"github.com/finwiselabs/finwise-lambda/internal/account"
	"github.com/finwiselabs/finwise-lambda/internal/goal"
)

const systemPrompt = `You are a personal finance assistant inside a budgeting dashboard.

Your role is to answer questions about the user's accounts, savings goals and
spending, using only the financial snapshot provided with each message.

Rules:
1. Only answer questions about personal finance: balances, budgeting, savings
   goals, spending habits and similar topics.
2. Base every figure you mention on the snapshot. Never invent balances,
   transactions or goals that are not listed.
3. If the snapshot does not contain the information needed, say so instead of
   guessing.
4. When the user scopes the question to one account, focus your answer on that
   account.
5. Keep answers short and practical. Plain text, no markdown tables.
6. Never give investment, tax or legal advice; suggest consulting a
   professional instead.
7. If the question is not about personal finance, politely decline.`

// BuildUserPrompt pairs the user's question with the snapshot the model is
// allowed to reason over.
func BuildUserPrompt(message, financialContext string) string {
	if financialContext == "" {
		return fmt.Sprintf("User question: %s", message)
	}
	return fmt.Sprintf("Financial snapshot:\n%s\n\nUser question: %s", financialContext, message)
}

// BuildFinancialContext renders a compact plain-text snapshot of the user's
// accounts and goals. selectedAccount, when set, is called out so the model
// knows which account the question is about.
func BuildFinancialContext(accounts []account.Account, goals []goal.Goal, selectedAccount *account.Account) string {
	var b strings.Builder

	if len(accounts) > 0 {
		b.WriteString("Accounts:\n")
		for i := range accounts {
			a := &accounts[i]
			fmt.Fprintf(&b, "- %s (%s/%s): current %.2f, available %.2f\n",
				a.Name, a.Type, a.Subtype, a.Balances.Current, a.AvailableBalance())
		}
	}

	if len(goals) > 0 {
		b.WriteString("Goals:\n")
		for i := range goals {
			g := &goals[i]
			fmt.Fprintf(&b, "- %s [%s]: target %.2f, saved %.2f (%.1f%%)\n",
				g.Title, g.Status, g.TargetAmount, goal.TotalProgress(g), goal.ProgressPercentage(g))
		}
	}

	if selectedAccount != nil {
		fmt.Fprintf(&b, "The question is about the account %q (current %.2f, available %.2f).\n",
			selectedAccount.Name, selectedAccount.Balances.Current, selectedAccount.AvailableBalance())
	}

	return strings.TrimSpace(b.String())
}
