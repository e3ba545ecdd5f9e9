package intent

import "fmt"

const classifyMaxTokens = 10

const classifyPrompt = `Classify the user's message as either "goal" (they want to create an automation workflow) or "chat" (they're asking a question or having a conversation).

Examples of "goal":
- "When a lead fills out my Typeform, add them to Airtable and send a welcome email"
- "Connect Airtable to Gmail"
- "Send new leads a text message"
- "Automate my newsletter signup process"

Examples of "chat":
- "Hello"
- "What can you do?"
- "How does this work?"
- "Help me understand workflows"

User message: "%s"

Respond with only "goal" or "chat":`

func buildPrompt(message string) string {
	return fmt.Sprintf(classifyPrompt, message)
}
