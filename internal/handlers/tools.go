package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/ThinkInAIXYZ/go-mcp/protocol"

	"wgze/internal/auth"
	applog "wgze/internal/log"
	"wgze/internal/store"
	"wgze/models"
)

const defaultToolMealLimit = 20

type toolHandler func(ctx context.Context, req *protocol.CallToolRequest) (any, error)

var tools = map[string]toolHandler{
	"list_dishes": toolListDishes,
	"get_meals":   toolGetMeals,
	"log_meal":    toolLogMeal,
}

type toolError struct {
	Error string `json:"error"`
}

type toolDish struct {
	ID                 uint    `json:"id"`
	Name               string  `json:"name"`
	Notes              *string `json:"notes,omitempty"`
	LastEaten          string  `json:"last_eaten,omitempty"`
	DaysSinceLastEaten int     `json:"days_since_last_eaten"`
	Bucket             string  `json:"bucket"`
}

type toolMeal struct {
	ID       uint    `json:"id"`
	DishID   uint    `json:"dish_id"`
	DishName string  `json:"dish_name"`
	Date     string  `json:"date"`
	Notes    *string `json:"notes,omitempty"`
}

type getMealsParams struct {
	StartDate string `json:"start_date,omitempty"`
	EndDate   string `json:"end_date,omitempty"`
	Limit     int    `json:"limit,omitempty"`
}

type logMealParams struct {
	FoodName string `json:"food_name"`
	Dish     string `json:"dish,omitempty"`
	Date     string `json:"date,omitempty"`
	Notes    string `json:"notes,omitempty"`
}

type logMealResult struct {
	Meal        toolMeal `json:"meal"`
	DishCreated bool     `json:"dish_created"`
}

// CallTool dispatches a tool-call request against the dish and meal stores.
func CallTool(w http.ResponseWriter, r *http.Request) {
	if dishStore == nil || mealStore == nil {
		writeToolError(w, http.StatusServiceUnavailable, "database not available")
		return
	}

	var request protocol.CallToolRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeToolError(w, http.StatusBadRequest, "invalid JSON request")
		return
	}

	handler, ok := tools[request.Name]
	if !ok {
		writeToolError(w, http.StatusNotFound, fmt.Sprintf("unknown tool: %s", request.Name))
		return
	}

	data, err := handler(r.Context(), &request)
	if err != nil {
		status, message := statusFor(err, "not found")
		if status >= http.StatusInternalServerError {
			applog.Error(r.Context(), "tool call failed", "tool", request.Name, "error", err)
		}
		var params *paramsError
		if errors.As(err, &params) {
			status, message = http.StatusBadRequest, params.Error()
		}
		writeToolError(w, status, message)
		return
	}

	payload, err := json.Marshal(data)
	if err != nil {
		applog.Error(r.Context(), "failed to encode tool result", "tool", request.Name, "error", err)
		writeToolError(w, http.StatusInternalServerError, "failed to encode result")
		return
	}
	result := &protocol.CallToolResult{
		Content: []protocol.Content{
			protocol.TextContent{
				Type: "text",
				Text: string(payload),
			},
		},
	}
	if err := json.NewEncoder(w).Encode(result); err != nil {
		applog.Error(r.Context(), "failed to write tool result", "error", err)
	}
}

type paramsError struct {
	err error
}

func (e *paramsError) Error() string {
	return "invalid parameters: " + e.err.Error()
}

func extractParams(req *protocol.CallToolRequest, target any) error {
	if len(req.Arguments) == 0 {
		return nil
	}
	raw, err := json.Marshal(req.Arguments)
	if err != nil {
		return &paramsError{err: err}
	}
	if err := json.Unmarshal(raw, target); err != nil {
		return &paramsError{err: err}
	}
	return nil
}

func optionalDate(value string) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	parsed, err := models.ParseDate(value)
	if err != nil {
		return nil, &paramsError{err: fmt.Errorf("date %q must be YYYY-MM-DD", value)}
	}
	return &parsed, nil
}

func toolListDishes(ctx context.Context, req *protocol.CallToolRequest) (any, error) {
	rows, err := dishStore.ListWithStaleness(ctx, today())
	if err != nil {
		return nil, err
	}
	dishes := make([]toolDish, 0, len(rows))
	for _, row := range rows {
		dish := toolDish{
			ID:                 row.ID,
			Name:               row.Name,
			Notes:              row.Notes,
			DaysSinceLastEaten: row.DaysSinceLastEaten,
			Bucket:             string(row.Bucket),
		}
		if row.LastEaten != nil {
			dish.LastEaten = models.FormatDate(*row.LastEaten)
		}
		dishes = append(dishes, dish)
	}
	return dishes, nil
}

func toolGetMeals(ctx context.Context, req *protocol.CallToolRequest) (any, error) {
	var params getMealsParams
	if err := extractParams(req, &params); err != nil {
		return nil, err
	}
	if params.Limit <= 0 {
		params.Limit = defaultToolMealLimit
	}
	from, err := optionalDate(params.StartDate)
	if err != nil {
		return nil, err
	}
	to, err := optionalDate(params.EndDate)
	if err != nil {
		return nil, err
	}

	entries, err := mealStore.ListRange(ctx, from, to, params.Limit)
	if err != nil {
		return nil, err
	}
	meals := make([]toolMeal, 0, len(entries))
	for _, entry := range entries {
		meals = append(meals, toolMeal{
			ID:       entry.ID,
			DishID:   entry.DishID,
			DishName: entry.DishName,
			Date:     models.FormatDate(entry.Date),
			Notes:    entry.Notes,
		})
	}
	return meals, nil
}

func toolLogMeal(ctx context.Context, req *protocol.CallToolRequest) (any, error) {
	var params logMealParams
	if err := extractParams(req, &params); err != nil {
		return nil, err
	}
	name := params.FoodName
	if strings.TrimSpace(name) == "" {
		name = params.Dish
	}
	date := today()
	if parsed, err := optionalDate(params.Date); err != nil {
		return nil, err
	} else if parsed != nil {
		date = *parsed
	}

	result, err := store.RecordMeal(ctx, dishStore, mealStore, name, date, models.OptionalText(params.Notes))
	if err != nil {
		return nil, err
	}
	applog.Info(ctx, "meal logged via tool", "meal_id", result.Meal.ID, "dish_created", result.DishCreated)
	return logMealResult{
		Meal: toolMeal{
			ID:       result.Meal.ID,
			DishID:   result.Dish.ID,
			DishName: result.Dish.Name,
			Date:     result.Meal.Date,
			Notes:    result.Meal.Notes,
		},
		DishCreated: result.DishCreated,
	}, nil
}

func writeToolError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(toolError{Error: message})
}

// RequireAPIAuthentication answers unauthenticated tool calls with a JSON 401.
func RequireAPIAuthentication(next http.Handler) http.Handler {
	return auth.Require(authenticator, func(w http.ResponseWriter, r *http.Request) {
		writeToolError(w, http.StatusUnauthorized, "authentication required")
	})(next)
}
