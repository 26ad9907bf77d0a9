package httpgin

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/AndrewCorlett/yacht-charter-dashboard-sub003/internal/bookingnum"
	redisrepo "github.com/AndrewCorlett/yacht-charter-dashboard-sub003/internal/repository/redis"
	"github.com/AndrewCorlett/yacht-charter-dashboard-sub003/internal/service"
	"github.com/AndrewCorlett/yacht-charter-dashboard-sub003/internal/service/admin"
	"github.com/AndrewCorlett/yacht-charter-dashboard-sub003/internal/service/bookings"
	"github.com/AndrewCorlett/yacht-charter-dashboard-sub003/internal/service/calendar"
)

func NewRouter(
	svcs *service.Services,
	idem *redisrepo.IdempotencyStore,
	logger *slog.Logger,
	middlewares ...gin.HandlerFunc,
) *gin.Engine {
	r := gin.New()

	r.Use(gin.Recovery(), LoggingMiddleware(logger), RequestIDMiddleware(), CORS())
	for _, m := range middlewares {
		if m != nil {
			r.Use(m)
		}
	}

	// Swagger UI
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// health
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Bookings
	r.GET("/bookings", handleListBookings(svcs))
	r.POST("/bookings", handleCreateBooking(svcs, idem))
	r.GET("/bookings/:id", handleGetBooking(svcs))
	r.PUT("/bookings/:id", handleUpdateBooking(svcs))
	r.GET("/bookings/:id/calendar.ics", handleExportBooking(svcs))
	r.GET("/booking-numbers/:number", handleGetBookingByNumber(svcs))

	// Calendar
	r.GET("/calendar.ics", handleExportFeed(svcs))
	r.POST("/calendar/import", handleImportPreview(svcs))
	r.POST("/calendar/validate", handleValidateFeed(svcs))

	// Admin-API
	// TODO: add admin middleware
	adm := r.Group("/admin")
	{
		adm.GET("/sequences", handleListSequences(svcs))
		adm.PUT("/sequences/:key", handleSetSequence(svcs))
		adm.POST("/sequences/reset", handleResetSequences(svcs))
		adm.POST("/booking-numbers/validate", handleValidateNumber(svcs))
		adm.POST("/booking-numbers/batch", handleGenerateNumbers(svcs))
		adm.GET("/booking-numbers/:number", handleParseNumber(svcs))
	}

	return r
}

// --- Handlers with Swagger annotations ---

// @Summary  List bookings
// @Param    yacht  query  string  false "yacht id filter"
// @Param    limit  query  int     false "page size"
// @Param    offset query  int     false "offset"
// @Success  200  {array}   domain.Booking
// @Router   /bookings [get]
func handleListBookings(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit := parseIntDefault(c.Query("limit"), 100)
		offset := parseIntDefault(c.Query("offset"), 0)

		list, err := svcs.Bookings.List(c.Request.Context(), c.Query("yacht"), limit, offset)
		if err != nil {
			respondErr(c, err)
			return
		}
		writeJSONWithCache(c, http.StatusOK, list, "public, max-age=15", true)
	}
}

// @Summary  Create booking (idempotent)
// @Param    req body  SaveBookingRequest true "payload"
// @Header   201 {string} Idempotency-Key "echo"
// @Success  201 {object} CreateBookingResponse
// @Failure  422 {object} ErrorResponse "validation failed"
// @Failure  409 {object} ErrorResponse "number conflict / idem in progress"
// @Failure  429 {object} ErrorResponse "rate limited"
// @Router   /bookings [post]
func handleCreateBooking(
	svcs *service.Services,
	idem *redisrepo.IdempotencyStore,
) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req SaveBookingRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}

		idemKey := strings.TrimSpace(c.GetHeader("Idempotency-Key"))
		var idemStorageKey string
		if idem != nil && idemKey != "" {
			idemStorageKey = redisrepo.KeyIdemCreateBooking(idemKey)

			if payload, ok, _ := idem.GetResult(c.Request.Context(), idemStorageKey); ok {
				c.Header("Idempotency-Key", idemKey)
				c.Data(http.StatusCreated, "application/json; charset=utf-8", []byte(payload))
				return
			}

			locked, err := idem.AcquireLock(c.Request.Context(), idemStorageKey, 60*time.Second)
			if err != nil {
				respondErr(c, err)
				return
			}
			if !locked {
				if payload, ok, _ := idem.GetResult(c.Request.Context(), idemStorageKey); ok {
					c.Header("Idempotency-Key", idemKey)
					c.Data(http.StatusCreated, "application/json; charset=utf-8", []byte(payload))
					return
				}
				c.Header("Retry-After", "1")
				if inProgress, _ := idem.IsLocked(c.Request.Context(), idemStorageKey); inProgress {
					c.JSON(http.StatusConflict, ErrorResponse{Error: "idempotency key in progress"})
					return
				}
				// Lock vanished between probes; the original attempt failed.
				c.JSON(http.StatusConflict, ErrorResponse{Error: "idempotency key unavailable, retry"})
				return
			}
		}

		rlKey := "ip:" + c.ClientIP()

		b, err := svcs.Bookings.Create(
			c.Request.Context(),
			req.FormData,
			req.StatusData,
			req.DocumentStates,
			rlKey,
		)
		if err != nil {
			if idemStorageKey != "" && idem != nil {
				_ = idem.Release(c.Request.Context(), idemStorageKey)
			}
			respondErr(c, err)
			return
		}

		resp := CreateBookingResponse{
			BookingID:     b.ID.String(),
			BookingNumber: b.Number,
		}

		if idemStorageKey != "" && idem != nil {
			jb, _ := json.Marshal(resp)
			_ = idem.SaveResult(c.Request.Context(), idemStorageKey, string(jb))
			c.Header("Idempotency-Key", idemKey)
		}

		c.JSON(http.StatusCreated, resp)
	}
}

// @Summary  Get booking with form view
// @Param    id  path  string  true  "Booking ID (uuid)"
// @Success  200 {object} BookingDetailResponse
// @Failure  404 {object} ErrorResponse
// @Router   /bookings/{id} [get]
func handleGetBooking(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseUUIDParam(c, "id")
		if !ok {
			return
		}
		b, view, err := svcs.Bookings.Get(c.Request.Context(), id)
		if err != nil {
			respondErr(c, err)
			return
		}
		writeJSONWithCache(c, http.StatusOK, BookingDetailResponse{Booking: b, View: view}, "public, max-age=15", true)
	}
}

// @Summary  Get booking by its number
// @Param    number  path  string  true  "booking number"
// @Success  200 {object} BookingDetailResponse
// @Failure  404 {object} ErrorResponse
// @Router   /booking-numbers/{number} [get]
func handleGetBookingByNumber(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		b, view, err := svcs.Bookings.GetByNumber(c.Request.Context(), c.Param("number"))
		if err != nil {
			respondErr(c, err)
			return
		}
		writeJSONWithCache(c, http.StatusOK, BookingDetailResponse{Booking: b, View: view}, "public, max-age=15", true)
	}
}

// @Summary  Update booking
// @Param    id  path  string  true  "Booking ID (uuid)"
// @Param    req body  SaveBookingRequest true "payload"
// @Success  200 {object} domain.Booking
// @Failure  404 {object} ErrorResponse
// @Failure  422 {object} ErrorResponse
// @Router   /bookings/{id} [put]
func handleUpdateBooking(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseUUIDParam(c, "id")
		if !ok {
			return
		}
		var req SaveBookingRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}

		b, err := svcs.Bookings.Update(
			c.Request.Context(),
			id,
			req.FormData,
			req.StatusData,
			req.DocumentStates,
		)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, b)
	}
}

// @Summary  Download one booking as iCalendar
// @Param    id      path   string  true  "Booking ID (uuid)"
// @Param    alarms  query  bool    false "embed VALARM reminders"
// @Produce  text/calendar
// @Success  200 {string} string
// @Router   /bookings/{id}/calendar.ics [get]
func handleExportBooking(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseUUIDParam(c, "id")
		if !ok {
			return
		}
		file, err := svcs.Calendar.ExportBooking(c.Request.Context(), id, c.Query("alarms") == "true")
		if err != nil {
			respondErr(c, err)
			return
		}
		writeCalendarFile(c, file.Filename, file.Content)
	}
}

// @Summary  Download the booking calendar feed
// @Param    yacht   query  string  false "yacht id filter"
// @Param    alarms  query  bool    false "embed VALARM reminders"
// @Produce  text/calendar
// @Success  200 {string} string
// @Router   /calendar.ics [get]
func handleExportFeed(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		file, err := svcs.Calendar.ExportFeed(c.Request.Context(), c.Query("yacht"), c.Query("alarms") == "true")
		if err != nil {
			respondErr(c, err)
			return
		}
		writeCalendarFile(c, file.Filename, file.Content)
	}
}

// @Summary  Preview a calendar import
// @Param    req body  ImportPreviewRequest true "raw iCalendar text"
// @Success  200 {object} ImportPreviewResponse
// @Router   /calendar/import [post]
func handleImportPreview(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ImportPreviewRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		list, diags := svcs.Calendar.ImportPreview(req.Content)
		c.JSON(http.StatusOK, ImportPreviewResponse{
			Bookings:    list,
			Diagnostics: diags,
			Count:       len(list),
		})
	}
}

// @Summary  Validate calendar text
// @Param    req body  ValidateFeedRequest true "raw iCalendar text"
// @Success  200 {object} ics.Report
// @Router   /calendar/validate [post]
func handleValidateFeed(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ValidateFeedRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		c.JSON(http.StatusOK, svcs.Calendar.ValidateFeed(req.Content))
	}
}

// @Summary  List booking number sequences
// @Success  200 {array} postgresrepo.SequenceRow
// @Router   /admin/sequences [get]
func handleListSequences(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		rows, err := svcs.Admin.ListSequences(c.Request.Context())
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, rows)
	}
}

// @Summary  Overwrite one sequence counter
// @Param    key  path  string  true  "sequence key"
// @Param    req  body  SetSequenceRequest true "payload"
// @Success  204
// @Router   /admin/sequences/{key} [put]
func handleSetSequence(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req SetSequenceRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		if err := svcs.Admin.SetSequence(c.Request.Context(), c.Param("key"), req.Value); err != nil {
			respondErr(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// @Summary  Reset every sequence counter
// @Success  204
// @Router   /admin/sequences/reset [post]
func handleResetSequences(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svcs.Admin.ResetSequences(c.Request.Context()); err != nil {
			respondErr(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// @Summary  Validate a booking number
// @Param    req body  ValidateNumberRequest true "payload"
// @Success  200 {object} bookingnum.Validation
// @Router   /admin/booking-numbers/validate [post]
func handleValidateNumber(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ValidateNumberRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		c.JSON(http.StatusOK, svcs.Admin.ValidateNumber(req.Number, bookingnum.Format(req.Format)))
	}
}

// @Summary  Pre-issue a batch of booking numbers
// @Param    req body  GenerateNumbersRequest true "payload"
// @Success  200 {object} GenerateNumbersResponse
// @Failure  400 {object} ErrorResponse
// @Router   /admin/booking-numbers/batch [post]
func handleGenerateNumbers(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req GenerateNumbersRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		numbers, err := svcs.Admin.GenerateNumbers(c.Request.Context(), req.Count, req.YachtID)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, GenerateNumbersResponse{Numbers: numbers, Count: len(numbers)})
	}
}

// @Summary  Parse a booking number
// @Param    number  path  string  true  "booking number"
// @Success  200 {object} bookingnum.Components
// @Router   /admin/booking-numbers/{number} [get]
func handleParseNumber(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, svcs.Admin.ParseNumber(c.Param("number")))
	}
}

// --- Helpers ---

func parseUUIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	v, err := uuid.Parse(c.Param(name))
	if err != nil {
		badRequest(c, "invalid "+name)
		return uuid.Nil, false
	}
	return v, true
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: msg})
}

func writeCalendarFile(c *gin.Context, filename, content string) {
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(content))
}

func respondErr(c *gin.Context, err error) {
	if err == nil {
		c.Status(http.StatusNoContent)
		return
	}

	var (
		valErr bookings.ValidationError
		rlErr  bookings.RateLimitedError
	)

	switch {
	// bookings service
	case errors.As(err, &valErr):
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:  "booking failed validation",
			Fields: valErr.Result.Errors,
		})
		return
	case errors.As(err, &rlErr):
		c.Header("Retry-After", strconv.Itoa(int(rlErr.RetryAfter.Seconds())+1))
		c.JSON(http.StatusTooManyRequests, ErrorResponse{Error: rlErr.Error()})
		return
	case errors.Is(err, bookings.ErrBookingNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "booking not found"})
		return
	case errors.Is(err, bookings.ErrNumberConflict):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "booking number conflict"})
		return
	// calendar service
	case errors.Is(err, calendar.ErrBookingNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "booking not found"})
		return
	// admin service
	case errors.Is(err, admin.ErrInvalidSequence):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "sequence value must not be negative"})
		return
	case errors.Is(err, admin.ErrInvalidBatchSize):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: admin.ErrInvalidBatchSize.Error()})
		return
	// number generation
	case errors.Is(err, bookingnum.ErrExhausted):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "booking number space exhausted"})
		return
	case errors.Is(err, bookingnum.ErrTemplateMissing),
		errors.Is(err, bookingnum.ErrYachtRequired):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
}
