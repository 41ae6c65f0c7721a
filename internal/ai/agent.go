package ai

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"stockmaster/internal/billing"
	"stockmaster/internal/inventory"
	"stockmaster/internal/models"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const (
	DefaultModel  = "gemini-2.0-flash-001"
	maxToolRounds = 5
)

// Agent answers stock and sales questions by letting Gemini call into the
// ledger and the invoice store.
type Agent struct {
	apiKey   string
	model    string
	ledger   *inventory.Ledger
	invoices *billing.Store
	now      func() time.Time
}

func NewAgent(apiKey string, ledger *inventory.Ledger, invoices *billing.Store) *Agent {
	return &Agent{
		apiKey:   apiKey,
		model:    DefaultModel,
		ledger:   ledger,
		invoices: invoices,
		now:      time.Now,
	}
}

func (a *Agent) prompt(userMessage string) string {
	today := a.now().Format("2006-01-02")
	return fmt.Sprintf(`SYSTEM: Today is %s. You are the StockMaster inventory assistant.

	RULES:
	1. READ: For stock levels, prices, weights or locations of a product, call 'check_inventory' and answer from its result. Never ask the user for a product ID.
	2. ADJUST: To add or remove stock for a product named by the user, call 'check_inventory' to find its ID, then 'adjust_stock'. Quantities only change through 'adjust_stock'.
	3. SALES: For revenue or number of sales, call 'get_sales_report'.

	USER: %s`, today, userMessage)
}

func tools() []*genai.Tool {
	return []*genai.Tool{
		{
			FunctionDeclarations: []*genai.FunctionDeclaration{
				{
					Name:        "check_inventory",
					Description: "List products with ID, name, location, stock quantity, weight and price. Optionally filter by a name or location substring.",
					Parameters: &genai.Schema{
						Type: genai.TypeObject,
						Properties: map[string]*genai.Schema{
							"query": {Type: genai.TypeString, Description: "Optional name or location filter"},
						},
					},
				},
				{
					Name:        "adjust_stock",
					Description: "Increase or decrease the stock quantity of one product.",
					Parameters: &genai.Schema{
						Type: genai.TypeObject,
						Properties: map[string]*genai.Schema{
							"product_id": {Type: genai.TypeString, Description: "ID of the product"},
							"direction":  {Type: genai.TypeString, Description: "increase or decrease", Enum: []string{"increase", "decrease"}},
							"amount":     {Type: genai.TypeInteger, Description: "Positive number of units"},
						},
						Required: []string{"product_id", "direction", "amount"},
					},
				},
				{
					Name:        "get_sales_report",
					Description: "Get total sales revenue and invoice count for a date range.",
					Parameters: &genai.Schema{
						Type: genai.TypeObject,
						Properties: map[string]*genai.Schema{
							"start_date": {Type: genai.TypeString, Description: "Start date (YYYY-MM-DD)"},
							"end_date":   {Type: genai.TypeString, Description: "End date (YYYY-MM-DD)"},
						},
						Required: []string{"start_date", "end_date"},
					},
				},
			},
		},
	}
}

// Ask runs one conversation turn. Stock changes made by the model are
// recorded under the asking operator's name.
func (a *Agent) Ask(ctx context.Context, operator, message string) (string, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(a.apiKey))
	if err != nil {
		return "", fmt.Errorf("gemini client: %w", err)
	}
	defer client.Close()

	model := client.GenerativeModel(a.model)
	model.Tools = tools()
	session := model.StartChat()

	resp, err := session.SendMessage(ctx, genai.Text(a.prompt(message)))
	if err != nil {
		return "", err
	}

	for round := 0; round < maxToolRounds; round++ {
		calls := functionCalls(resp)
		if len(calls) == 0 {
			break
		}

		parts := make([]genai.Part, 0, len(calls))
		for _, call := range calls {
			result, err := a.callTool(ctx, operator, call.Name, call.Args)
			if err != nil {
				result = map[string]any{"error": err.Error()}
			}
			parts = append(parts, genai.FunctionResponse{Name: call.Name, Response: result})
		}

		resp, err = session.SendMessage(ctx, parts...)
		if err != nil {
			return "", err
		}
	}

	return replyText(resp), nil
}

// callTool executes one function call requested by the model.
func (a *Agent) callTool(ctx context.Context, operator, name string, args map[string]any) (map[string]any, error) {
	switch name {
	case "check_inventory":
		query, _ := args["query"].(string)
		products, err := a.ledger.ListProducts(ctx, inventory.ProductFilter{Query: query})
		if err != nil {
			return nil, err
		}
		list := make([]map[string]any, 0, len(products))
		for _, p := range products {
			list = append(list, map[string]any{
				"id":            p.ID,
				"itemName":      p.ItemName,
				"inventoryName": p.InventoryName,
				"quantity":      p.Quantity,
				"weightPerItem": p.WeightPerItem,
				"price":         p.Price.StringFixed(2),
			})
		}
		return map[string]any{"products": list}, nil

	case "adjust_stock":
		id, err := stringArg(args, "product_id")
		if err != nil {
			return nil, err
		}
		direction, err := stringArg(args, "direction")
		if err != nil {
			return nil, err
		}
		amount, err := intArg(args, "amount")
		if err != nil {
			return nil, err
		}
		p, entry, err := a.ledger.AdjustQuantity(ctx, operator, id, models.ActionType(direction), amount)
		if err != nil {
			return nil, err
		}
		return map[string]any{
			"status":           "updated",
			"itemName":         p.ItemName,
			"previousQuantity": entry.PreviousQuantity,
			"newQuantity":      entry.NewQuantity,
		}, nil

	case "get_sales_report":
		start, err := dateArg(args, "start_date")
		if err != nil {
			return nil, err
		}
		end, err := dateArg(args, "end_date")
		if err != nil {
			return nil, err
		}
		report, err := a.invoices.SalesReport(ctx, start, end.Add(24*time.Hour-time.Nanosecond))
		if err != nil {
			return nil, err
		}
		return map[string]any{
			"revenue":     report.TotalRevenue.StringFixed(2),
			"sales_count": report.TotalCount,
		}, nil
	}
	return nil, fmt.Errorf("unknown tool %q", name)
}

func stringArg(args map[string]any, key string) (string, error) {
	s, ok := args[key].(string)
	if !ok || s == "" {
		return "", fmt.Errorf("%s must be a non-empty string", key)
	}
	return s, nil
}

// JSON numbers from the model arrive as float64.
func intArg(args map[string]any, key string) (int, error) {
	f, ok := args[key].(float64)
	if !ok || f != math.Trunc(f) {
		return 0, fmt.Errorf("%s must be a whole number", key)
	}
	return int(f), nil
}

func dateArg(args map[string]any, key string) (time.Time, error) {
	s, err := stringArg(args, key)
	if err != nil {
		return time.Time{}, err
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, errors.New("dates must be in YYYY-MM-DD format")
	}
	return t, nil
}

func functionCalls(resp *genai.GenerateContentResponse) []genai.FunctionCall {
	var calls []genai.FunctionCall
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil
	}
	for _, part := range resp.Candidates[0].Content.Parts {
		if call, ok := part.(genai.FunctionCall); ok {
			calls = append(calls, call)
		}
	}
	return calls
}

func replyText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "I completed the action."
	}
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			return string(txt)
		}
	}
	return "I completed the action."
}
