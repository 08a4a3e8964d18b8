package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// HTTPAPI はAPIのHTTP実装。サーバの/cartと/favoritesを叩く。
type HTTPAPI struct {
	baseURL string
	httpc   *http.Client
}

// DI。httpcがnilなら10秒タイムアウトのクライアントを使う。
func NewHTTPAPI(baseURL string, httpc *http.Client) *HTTPAPI {
	if httpc == nil {
		httpc = &http.Client{Timeout: 10 * time.Second}
	}
	return &HTTPAPI{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   httpc,
	}
}

func (a *HTTPAPI) GetCart(ctx context.Context, userID string) (Cart, error) {
	var out Cart
	q := url.Values{"userId": {userID}}
	err := a.doJSON(ctx, http.MethodGet, "/cart", q, nil, &out)
	return out, err
}

func (a *HTTPAPI) AddCartItem(ctx context.Context, userID string, productID string, quantity int64) (Cart, error) {
	var out Cart
	body := map[string]any{"userId": userID, "productId": productID, "quantity": quantity}
	err := a.doJSON(ctx, http.MethodPost, "/cart", nil, body, &out)
	return out, err
}

func (a *HTTPAPI) SetCartQuantity(ctx context.Context, userID string, productID string, quantity int64) (Cart, error) {
	var out Cart
	body := map[string]any{"userId": userID, "productId": productID, "quantity": quantity}
	err := a.doJSON(ctx, http.MethodPut, "/cart", nil, body, &out)
	return out, err
}

func (a *HTTPAPI) RemoveCartItem(ctx context.Context, userID string, productID string) (Cart, error) {
	var out Cart
	body := map[string]any{"userId": userID, "productId": productID}
	err := a.doJSON(ctx, http.MethodDelete, "/cart", nil, body, &out)
	return out, err
}

func (a *HTTPAPI) ClearCart(ctx context.Context, userID string) (Cart, error) {
	var out Cart
	body := map[string]any{"userId": userID}
	err := a.doJSON(ctx, http.MethodDelete, "/cart/all", nil, body, &out)
	return out, err
}

func (a *HTTPAPI) GetFavorites(ctx context.Context, userID string) (Favorites, error) {
	var out Favorites
	q := url.Values{"userId": {userID}}
	err := a.doJSON(ctx, http.MethodGet, "/favorites", q, nil, &out)
	return out, err
}

func (a *HTTPAPI) AddFavorite(ctx context.Context, userID string, productID string) (Favorites, error) {
	var out Favorites
	body := map[string]any{"userId": userID, "productId": productID}
	err := a.doJSON(ctx, http.MethodPost, "/favorites", nil, body, &out)
	return out, err
}

func (a *HTTPAPI) RemoveFavorite(ctx context.Context, userID string, productID string) (Favorites, error) {
	var out Favorites
	body := map[string]any{"userId": userID, "productId": productID}
	err := a.doJSON(ctx, http.MethodDelete, "/favorites", nil, body, &out)
	return out, err
}

func (a *HTTPAPI) ReplaceFavorites(ctx context.Context, userID string, productIDs []string) (Favorites, error) {
	var out Favorites
	body := map[string]any{"userId": userID, "productIds": productIDs}
	err := a.doJSON(ctx, http.MethodPut, "/favorites", nil, body, &out)
	return out, err
}

// リクエストを投げ、ステータスをエラー種別へ畳み、JSONをoutへ読む。
func (a *HTTPAPI) doJSON(ctx context.Context, method string, path string, query url.Values, body any, out any) error {
	u := a.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalid, err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := a.httpc.Do(req)
	if err != nil {
		//ネットワーク断・タイムアウトなど
		return fmt.Errorf("%w: %v", ErrTransient, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out == nil {
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("%w: %v", ErrTransient, err)
		}
		return nil
	}

	return classifyStatus(resp.StatusCode, readErrorMessage(resp.Body))
}

// サーバの{"error": "..."}を読む。読めなくても落とさない。
func readErrorMessage(r io.Reader) string {
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(r).Decode(&payload); err != nil {
		return ""
	}
	return payload.Error
}

// HTTPステータスを4種類のエラーへ畳む。
func classifyStatus(status int, msg string) error {
	var kind error
	switch {
	case status == http.StatusNotFound:
		kind = ErrNotFound
	case status == http.StatusUnauthorized:
		kind = ErrAuthRequired
	case status >= 400 && status < 500:
		kind = ErrInvalid
	default:
		kind = ErrTransient
	}

	if msg == "" {
		return fmt.Errorf("%w: status %d", kind, status)
	}
	return fmt.Errorf("%w: %s", kind, msg)
}
