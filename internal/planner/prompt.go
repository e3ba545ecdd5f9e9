package planner

import "fmt"

const planMaxTokens = 1024

const planPrompt = `You are an expert automation architect. Break the user's goal into a short sequence of workflow steps.

Respond with JSON only, no commentary, in exactly this shape:
{"steps":[{"name":"...","description":"...","action_type":"webhook|api_call|data_transform","tool":"...","parameters":{}}]}

The first step must be the trigger. Use lowercase tool identifiers such as typeform, airtable, gmail, trello, slack, shopify, hubspot or mailchimp. Use "to_be_configured" for any parameter the user must supply.

Goal: %s`

func buildPrompt(goal string) string {
	return fmt.Sprintf(planPrompt, goal)
}
