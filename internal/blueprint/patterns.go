package blueprint

import "github.com/LawrenceCirillo/Alan/pkg/api"

const toBeConfigured = "to_be_configured"

var (
	formTrigger = StepTemplate{
		Name:        "Trigger: Form Submission",
		Description: "Detect when a form is submitted",
		ActionType:  "webhook",
		Tool:        "typeform",
		Parameters:  api.Params{"form_id": toBeConfigured},
	}

	airtableInsert = StepTemplate{
		Name:        "Add to Airtable",
		Description: "Add the form data to Airtable",
		ActionType:  "api_call",
		Tool:        "airtable",
		Parameters: api.Params{
			"base_id": toBeConfigured,
			"table":   "Leads",
		},
	}

	welcomeEmail = StepTemplate{
		Name:        "Send Welcome Email",
		Description: "Send a welcome email to the new lead",
		ActionType:  "api_call",
		Tool:        "sendgrid",
		Parameters:  api.Params{"template_id": "welcome_email"},
	}
)

// GenericSteps is the chain given to any goal no pattern recognizes
var GenericSteps = []StepTemplate{
	{
		Name:        "Trigger: Event",
		Description: "Detect the trigger event",
		ActionType:  "webhook",
		Tool:        "generic",
		Parameters:  api.Params{},
	},
	{
		Name:        "Process Data",
		Description: "Process and transform the data",
		ActionType:  "data_transform",
		Tool:        "processor",
		Parameters:  api.Params{},
	},
	{
		Name:        "Complete Action",
		Description: "Complete the desired action",
		ActionType:  "api_call",
		Tool:        "integration",
		Parameters:  api.Params{},
	},
}

// FormToAirtable captures form submissions into an Airtable base, with an
// optional welcome email
var FormToAirtable = Pattern{
	Name: "form_to_airtable",
	Match: All(
		Keywords("typeform", "form"),
		Keywords("airtable"),
	),
	Steps: []StepTemplate{formTrigger, airtableInsert},
	Tail: &Tail{
		Match: Keywords("email", "welcome"),
		Step:  welcomeEmail,
	},
}

// ChatPatterns is the catalog of the chat stream
var ChatPatterns = []Pattern{FormToAirtable}

// PlannerPatterns is the extended catalog of the generation service
var PlannerPatterns = []Pattern{
	FormToAirtable,
	{
		Name:  "email_to_trello",
		Match: All(Keywords("email"), Keywords("trello")),
		Steps: []StepTemplate{
			{
				Name:        "Trigger: New Email",
				Description: "Detect incoming email from customer",
				ActionType:  "webhook",
				Tool:        "gmail",
				Parameters:  api.Params{"filter": "from:customer"},
			},
			{
				Name:        "Create Trello Task",
				Description: "Create a new task in Trello board",
				ActionType:  "api_call",
				Tool:        "trello",
				Parameters: api.Params{
					"board_id": toBeConfigured,
					"list":     "Inbox",
				},
			},
		},
	},
	{
		Name:  "order_to_inventory",
		Match: Keywords("order", "inventory"),
		Steps: []StepTemplate{
			{
				Name:        "Trigger: New Order",
				Description: "Detect when a new order is received",
				ActionType:  "webhook",
				Tool:        "shopify",
				Parameters:  api.Params{"event": "order.created"},
			},
			{
				Name:        "Update Inventory",
				Description: "Update inventory spreadsheet",
				ActionType:  "api_call",
				Tool:        "google_sheets",
				Parameters:  api.Params{"spreadsheet_id": toBeConfigured},
			},
		},
		Tail: &Tail{
			Match: Keywords("slack", "notify"),
			Step: StepTemplate{
				Name:        "Notify Team",
				Description: "Send notification to team on Slack",
				ActionType:  "api_call",
				Tool:        "slack",
				Parameters:  api.Params{"channel": "#orders"},
			},
		},
	},
	{
		Name:  "crm_to_email_sequence",
		Match: Keywords("crm", "contact"),
		Steps: []StepTemplate{
			{
				Name:        "Trigger: New Contact",
				Description: "Detect when a contact is added to CRM",
				ActionType:  "webhook",
				Tool:        "hubspot",
				Parameters:  api.Params{"event": "contact.created"},
			},
			{
				Name:        "Send Email Sequence",
				Description: "Send personalized email sequence",
				ActionType:  "api_call",
				Tool:        "mailchimp",
				Parameters:  api.Params{"sequence_id": "welcome_sequence"},
			},
		},
	},
	{
		Name:  "newsletter_signup",
		Match: Keywords("newsletter", "mailchimp"),
		Steps: []StepTemplate{
			{
				Name:        "Trigger: Newsletter Subscription",
				Description: "Detect new newsletter subscription",
				ActionType:  "webhook",
				Tool:        "website",
				Parameters:  api.Params{"endpoint": "/subscribe"},
			},
			{
				Name:        "Add to Mailchimp",
				Description: "Add subscriber to Mailchimp list",
				ActionType:  "api_call",
				Tool:        "mailchimp",
				Parameters:  api.Params{"list_id": toBeConfigured},
			},
			{
				Name:        "Send Welcome Series",
				Description: "Trigger welcome email series",
				ActionType:  "api_call",
				Tool:        "mailchimp",
				Parameters:  api.Params{"automation_id": "welcome_series"},
			},
		},
	},
}
