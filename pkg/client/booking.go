package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	apperrors "domus/pkg/errors"
	"domus/pkg/model"
)

// BookingClient calls the bookings service over HTTP. The notifications
// service uses it to load a seller's bookings and to forward decision
// actions without owning the booking store.
type BookingClient struct {
	httpClient *HttpClient
}

func NewBookingClient(baseURL string) *BookingClient {
	return &BookingClient{
		httpClient: NewHttpClient(baseURL),
	}
}

func (c *BookingClient) Create(ctx context.Context, booking *model.Booking) (*Response, error) {
	return c.httpClient.POST(ctx, "/api/v1/bookings", booking)
}

func (c *BookingClient) GetBySeller(ctx context.Context, sellerID string) ([]*model.Booking, error) {
	path := "/api/v1/bookings/seller?seller_id=" + url.QueryEscape(sellerID)
	resp, err := c.httpClient.GET(ctx, path)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("bookings service returned %d: %s", resp.StatusCode, GetErrorMessage(resp))
	}

	var envelope struct {
		Data []*model.Booking `json:"data"`
	}
	if err := resp.DecodeJSON(&envelope); err != nil {
		return nil, fmt.Errorf("failed to decode bookings response: %w", err)
	}
	return envelope.Data, nil
}

func (c *BookingClient) Decide(ctx context.Context, bookingID string, decision model.Decision) error {
	path := "/api/v1/bookings/id/" + url.PathEscape(bookingID) + "/decision"
	body := map[string]string{"decision": string(decision)}

	resp, err := c.httpClient.POST(ctx, path, body)
	if err != nil {
		return apperrors.Internal("Failed to reach bookings service", err)
	}

	switch resp.StatusCode {
	case http.StatusNoContent, http.StatusOK:
		return nil
	case http.StatusNotFound:
		return apperrors.NotFoundWithID("Booking", bookingID)
	case http.StatusBadRequest:
		return apperrors.InvalidInput(GetErrorMessage(resp))
	default:
		return apperrors.Internal(
			fmt.Sprintf("Bookings service returned %d", resp.StatusCode), nil)
	}
}
