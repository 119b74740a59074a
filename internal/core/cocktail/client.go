package cocktail

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"cocktail-web/internal/infrastructure/config"
	"cocktail-web/internal/pkg/common"

	"github.com/go-playground/validator/v10"
	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

const (
	createPath = "/cocktail/create"
	healthPath = "/home/health"
)

// CreateRequest 建立食譜的請求內容
type CreateRequest struct {
	Mixers          []string `json:"mixers"`
	SuggestMixers   bool     `json:"suggest_mixers"`
	Cost            float64  `json:"cost,omitempty"`
	Complexity      string   `json:"complexity,omitempty"`
	RequiredTools   []string `json:"required_tools,omitempty"`
	PreviousRecipes []string `json:"previous_recipes,omitempty"`
	Moment          string   `json:"moment,omitempty"`
	HasShaker       bool     `json:"has_shaker"`
	BaseIngredients []string `json:"base_ingredients,omitempty"`
}

// Client 遠端雞尾酒服務客戶端，一次請求一次回應，不做重試
type Client struct {
	client     *resty.Client
	validate   *validator.Validate
	baseURL    string
	healthPath string
}

// NewClient 創建遠端服務客戶端
func NewClient(cfg *config.Config) *Client {
	client := resty.New().
		SetBaseURL(cfg.Remote.APIURL).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", fmt.Sprintf("%s/%s", cfg.App.Name, cfg.App.Version))
	if cfg.Remote.Timeout > 0 {
		client.SetTimeout(cfg.Remote.Timeout)
	}

	path := cfg.KeepAlive.Path
	if path == "" {
		path = healthPath
	}

	return &Client{
		client:     client,
		validate:   validator.New(),
		baseURL:    cfg.Remote.APIURL,
		healthPath: path,
	}
}

// CreateRecipe 送出條件並回傳經過結構驗證的食譜
func (c *Client) CreateRecipe(ctx context.Context, req CreateRequest) (*common.Recipe, error) {
	endpoint := c.baseURL + createPath

	if len(req.Mixers) == 0 {
		return nil, common.NewValidationError("at least one mixer is required")
	}

	common.LogInfo("Sending request to cocktail service",
		zap.String("endpoint", endpoint),
		zap.Strings("mixers", req.Mixers),
		zap.Int("previous_recipes", len(req.PreviousRecipes)),
	)

	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(req).
		Post(createPath)
	if err != nil {
		return nil, &common.NetworkError{
			Method:   http.MethodPost,
			Endpoint: endpoint,
			Reason:   "request failed",
			Err:      err,
		}
	}

	if !resp.IsSuccess() {
		return nil, &common.NetworkError{
			Status:   resp.StatusCode(),
			Method:   http.MethodPost,
			Endpoint: endpoint,
			Reason:   fmt.Sprintf("unexpected status: %s", truncate(resp.String(), 200)),
		}
	}

	recipe, err := c.decodeRecipe(resp.Body())
	if err != nil {
		return nil, &common.SchemaValidationError{
			Status:   resp.StatusCode(),
			Method:   http.MethodPost,
			Endpoint: endpoint,
			Reason:   "Invalid response schema",
			Err:      err,
		}
	}

	common.LogInfo("Cocktail created",
		zap.String("id", recipe.ID),
		zap.String("name", recipe.Name),
		zap.Int("steps", len(recipe.Steps)),
	)
	return recipe, nil
}

// Ping 保活請求，回應內容忽略
func (c *Client) Ping(ctx context.Context) error {
	endpoint := c.baseURL + c.healthPath

	resp, err := c.client.R().
		SetContext(ctx).
		Get(c.healthPath)
	if err != nil {
		return &common.NetworkError{
			Method:   http.MethodGet,
			Endpoint: endpoint,
			Reason:   "keep-alive request failed",
			Err:      err,
		}
	}
	if resp.StatusCode() >= http.StatusInternalServerError {
		return &common.NetworkError{
			Status:   resp.StatusCode(),
			Method:   http.MethodGet,
			Endpoint: endpoint,
			Reason:   "keep-alive unhealthy",
		}
	}
	return nil
}

// decodeRecipe 在信任邊界上驗證回應結構
func (c *Client) decodeRecipe(body []byte) (*common.Recipe, error) {
	var wire recipeWire
	if err := common.ParseJSONBytes(body, &wire); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}

	if err := c.validate.Struct(&wire); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return nil, fmt.Errorf("missing or invalid fields: %s", describe(verrs))
		}
		return nil, err
	}

	return wire.toRecipe(), nil
}

func describe(verrs validator.ValidationErrors) string {
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, fmt.Sprintf("%s(%s)", fe.Namespace(), fe.Tag()))
	}
	return strings.Join(parts, ", ")
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
