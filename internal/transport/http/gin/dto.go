package httpgin

import (
	"github.com/AndrewCorlett/yacht-charter-dashboard-sub003/internal/domain"
	"github.com/AndrewCorlett/yacht-charter-dashboard-sub003/internal/schema"
)

// SaveBookingRequest mirrors the dashboard's save payload: the camelCase
// form fields, the status boolean bag and the per-document lifecycle flags.
type SaveBookingRequest struct {
	FormData       map[string]any                  `json:"formData" binding:"required"`
	StatusData     map[string]any                  `json:"statusData"`
	DocumentStates map[string]domain.DocumentState `json:"documentStates"`
}

type CreateBookingResponse struct {
	BookingID     string `json:"booking_id"`
	BookingNumber string `json:"booking_number"`
}

type BookingDetailResponse struct {
	Booking *domain.Booking     `json:"booking"`
	View    *domain.BookingView `json:"view"`
}

type ImportPreviewRequest struct {
	Content string `json:"content" binding:"required"`
}

type ImportPreviewResponse struct {
	Bookings    []domain.Booking `json:"bookings"`
	Diagnostics []string         `json:"diagnostics"`
	Count       int              `json:"count"`
}

type ValidateFeedRequest struct {
	Content string `json:"content" binding:"required"`
}

type SetSequenceRequest struct {
	Value int64 `json:"value" binding:"min=0"`
}

type GenerateNumbersRequest struct {
	Count   int    `json:"count" binding:"required,min=1,max=100"`
	YachtID string `json:"yachtId"`
}

type GenerateNumbersResponse struct {
	Numbers []string `json:"numbers"`
	Count   int      `json:"count"`
}

type ValidateNumberRequest struct {
	Number string `json:"number" binding:"required"`
	Format string `json:"format"`
}

type ErrorResponse struct {
	Error  string              `json:"error"`
	Fields []schema.FieldError `json:"fields,omitempty"`
}
