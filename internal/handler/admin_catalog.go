// This file implements the admin catalog management endpoints.  All routes
// here sit behind JWTAuth + RequireRole("ADMIN").  Creates return 201 with
// the stored row (defaults filled in); constraint violations map to 409
// with the violated constraint named, missing parents to 400 or 404.
package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"movie-booking-catalog/internal/model"
	"movie-booking-catalog/internal/repository"
)

// AdminHandler aggregates the repositories behind the catalog management
// API.
type AdminHandler struct {
	TheaterRepo *repository.TheaterRepo
	HallRepo    *repository.HallRepo
	MovieRepo   *repository.MovieRepo
	SeatRepo    *repository.SeatRepo
	ShowRepo    *repository.ShowRepo
	BookingRepo *repository.BookingRepo
}

// constraintResponse maps a repository error to an HTTP response for write
// endpoints.  Uniqueness and check violations answer 409 naming the
// constraint; foreign-key violations answer 400 since the client referenced
// a parent that does not exist.
func constraintResponse(c echo.Context, err error, fallback string) error {
	var ce *repository.ConstraintError
	if errors.As(err, &ce) {
		switch ce.Kind {
		case repository.ConstraintForeignKey:
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "referenced record does not exist", "constraint": ce.Constraint})
		case repository.ConstraintUnique, repository.ConstraintCheck, repository.ConstraintNotNull:
			return c.JSON(http.StatusConflict, echo.Map{"error": "constraint violation", "constraint": ce.Constraint})
		}
	}
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": fallback})
}

type theaterReq struct {
	Name          string `json:"name"`
	Location      string `json:"location"`
	City          string `json:"city"`
	State         string `json:"state"`
	Pincode       string `json:"pincode"`
	ContactNumber string `json:"contact_number"`
}

// CreateTheater handles POST /v1/admin/theaters.
func (h *AdminHandler) CreateTheater(c echo.Context) error {
	var req theaterReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.City) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name and city are required"})
	}
	t := &model.Theater{
		Name:          strings.TrimSpace(req.Name),
		Location:      strings.TrimSpace(req.Location),
		City:          strings.TrimSpace(req.City),
		State:         strings.TrimSpace(req.State),
		Pincode:       strings.TrimSpace(req.Pincode),
		ContactNumber: strings.TrimSpace(req.ContactNumber),
	}
	if err := h.TheaterRepo.Create(c.Request().Context(), t); err != nil {
		return constraintResponse(c, err, "could not create theater")
	}
	return c.JSON(http.StatusCreated, t)
}

// UpdateTheater handles PUT /v1/admin/theaters/:id.
func (h *AdminHandler) UpdateTheater(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	cur, err := h.TheaterRepo.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrTheaterNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "theater not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	var req theaterReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if v := strings.TrimSpace(req.Name); v != "" {
		cur.Name = v
	}
	if v := strings.TrimSpace(req.Location); v != "" {
		cur.Location = v
	}
	if v := strings.TrimSpace(req.City); v != "" {
		cur.City = v
	}
	if v := strings.TrimSpace(req.State); v != "" {
		cur.State = v
	}
	if v := strings.TrimSpace(req.Pincode); v != "" {
		cur.Pincode = v
	}
	if v := strings.TrimSpace(req.ContactNumber); v != "" {
		cur.ContactNumber = v
	}
	if err := h.TheaterRepo.Update(c.Request().Context(), cur); err != nil {
		if errors.Is(err, repository.ErrTheaterNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "theater not found"})
		}
		return constraintResponse(c, err, "could not update theater")
	}
	return c.JSON(http.StatusOK, cur)
}

type hallReq struct {
	TheaterID       uint64 `json:"theater_id"`
	Name            string `json:"name"`
	SeatingCapacity uint32 `json:"seating_capacity"`
	ScreenType      string `json:"screen_type"`
}

// CreateHall handles POST /v1/admin/halls.  Capacity must be positive; the
// hall name is unique within its theater.
func (h *AdminHandler) CreateHall(c echo.Context) error {
	var req hallReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if req.TheaterID == 0 || strings.TrimSpace(req.Name) == "" || req.SeatingCapacity == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "theater_id, name and a positive seating_capacity are required"})
	}
	hall := &model.Hall{
		TheaterID:       req.TheaterID,
		Name:            strings.TrimSpace(req.Name),
		SeatingCapacity: req.SeatingCapacity,
		ScreenType:      strings.TrimSpace(req.ScreenType),
	}
	if err := h.HallRepo.Create(c.Request().Context(), hall); err != nil {
		return constraintResponse(c, err, "could not create hall")
	}
	return c.JSON(http.StatusCreated, hall)
}

// UpdateHall handles PUT /v1/admin/halls/:id.
func (h *AdminHandler) UpdateHall(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	cur, err := h.HallRepo.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrHallNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "hall not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	var req hallReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if v := strings.TrimSpace(req.Name); v != "" {
		cur.Name = v
	}
	if req.SeatingCapacity > 0 {
		cur.SeatingCapacity = req.SeatingCapacity
	}
	if v := strings.TrimSpace(req.ScreenType); v != "" {
		cur.ScreenType = v
	}
	if err := h.HallRepo.Update(c.Request().Context(), cur); err != nil {
		if errors.Is(err, repository.ErrHallNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "hall not found"})
		}
		return constraintResponse(c, err, "could not update hall")
	}
	return c.JSON(http.StatusOK, cur)
}

type movieReq struct {
	Title           string  `json:"title"`
	Language        string  `json:"language"`
	Format          string  `json:"format"`
	Rating          string  `json:"rating"`
	DurationMinutes uint32  `json:"duration_minutes"`
	Genre           string  `json:"genre"`
	ReleaseDate     string  `json:"release_date"`
	Description     *string `json:"description"`
}

// CreateMovie handles POST /v1/admin/movies.  Each (title, language,
// format) combination is its own record; posting "Dasara" in Telugu and
// again in Hindi yields two independent rows.
func (h *AdminHandler) CreateMovie(c echo.Context) error {
	var req movieReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Language) == "" || req.DurationMinutes == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title, language and a positive duration_minutes are required"})
	}
	release, err := time.Parse("2006-01-02", strings.TrimSpace(req.ReleaseDate))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "release_date must be YYYY-MM-DD"})
	}
	m := &model.Movie{
		Title:           strings.TrimSpace(req.Title),
		Language:        strings.TrimSpace(req.Language),
		Format:          strings.TrimSpace(req.Format),
		Rating:          strings.TrimSpace(req.Rating),
		DurationMinutes: req.DurationMinutes,
		Genre:           strings.TrimSpace(req.Genre),
		ReleaseDate:     release,
		Description:     req.Description,
	}
	if m.Format == "" {
		m.Format = "2D"
	}
	if err := h.MovieRepo.Create(c.Request().Context(), m); err != nil {
		return constraintResponse(c, err, "could not create movie")
	}
	return c.JSON(http.StatusCreated, m)
}

type seatReq struct {
	HallID   uint64 `json:"hall_id"`
	RowLabel string `json:"row_label"`
	Number   uint32 `json:"seat_number"`
	SeatType string `json:"seat_type"`
}

// CreateSeats handles POST /v1/admin/seats and accepts either a single seat
// or a "seats" array for bulk layout.  Duplicate (hall, row, number) answers
// 409 naming uq_seats_hall_row_number.
func (h *AdminHandler) CreateSeats(c echo.Context) error {
	var req struct {
		seatReq
		Seats []seatReq `json:"seats"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	batch := req.Seats
	if len(batch) == 0 {
		batch = []seatReq{req.seatReq}
	}
	seats := make([]model.Seat, 0, len(batch))
	for _, s := range batch {
		if s.HallID == 0 || strings.TrimSpace(s.RowLabel) == "" || s.Number == 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "hall_id, row_label and seat_number are required for every seat"})
		}
		seats = append(seats, model.Seat{
			HallID:     s.HallID,
			RowLabel:   strings.TrimSpace(s.RowLabel),
			SeatNumber: s.Number,
			SeatType:   strings.TrimSpace(s.SeatType),
		})
	}
	if err := h.SeatRepo.CreateBulk(c.Request().Context(), seats); err != nil {
		return constraintResponse(c, err, "could not create seats")
	}
	return c.JSON(http.StatusCreated, echo.Map{"items": seats})
}

type showReq struct {
	MovieID   uint64 `json:"movie_id"`
	HallID    uint64 `json:"hall_id"`
	ShowDate  string `json:"show_date"`
	StartTime string `json:"start_time"`
	BasePrice string `json:"base_price"`
}

// CreateShow handles POST /v1/admin/shows.  The end time is computed from
// the movie's runtime; a clashing (hall, date, start_time) answers 409.
func (h *AdminHandler) CreateShow(c echo.Context) error {
	var req showReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if req.MovieID == 0 || req.HallID == 0 || req.ShowDate == "" || req.StartTime == "" || req.BasePrice == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "movie_id, hall_id, show_date, start_time and base_price are required"})
	}
	if _, err := time.Parse("2006-01-02", req.ShowDate); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "show_date must be YYYY-MM-DD"})
	}
	s := &model.Show{
		MovieID:   req.MovieID,
		HallID:    req.HallID,
		ShowDate:  req.ShowDate,
		StartTime: req.StartTime,
		BasePrice: req.BasePrice,
	}
	if err := h.ShowRepo.Create(c.Request().Context(), s); err != nil {
		switch {
		case errors.Is(err, repository.ErrMovieNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "movie not found"})
		case errors.Is(err, repository.ErrHallNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "hall not found"})
		default:
			return constraintResponse(c, err, "could not create show")
		}
	}
	return c.JSON(http.StatusCreated, s)
}

type activeReq struct {
	Active *bool `json:"active"`
}

func bindActive(c echo.Context) (bool, error) {
	var req activeReq
	if err := c.Bind(&req); err != nil || req.Active == nil {
		return false, errors.New("body must contain an \"active\" boolean")
	}
	return *req.Active, nil
}

// SetTheaterActive handles PATCH /v1/admin/theaters/:id/active.  Soft
// deletion: the theater keeps its history but drops out of public listings.
func (h *AdminHandler) SetTheaterActive(c echo.Context) error {
	return h.setActive(c, func(id uint64, active bool) error {
		return h.TheaterRepo.SetActive(c.Request().Context(), id, active)
	}, repository.ErrTheaterNotFound, "theater not found")
}

// SetHallActive handles PATCH /v1/admin/halls/:id/active.
func (h *AdminHandler) SetHallActive(c echo.Context) error {
	return h.setActive(c, func(id uint64, active bool) error {
		return h.HallRepo.SetActive(c.Request().Context(), id, active)
	}, repository.ErrHallNotFound, "hall not found")
}

// SetMovieActive handles PATCH /v1/admin/movies/:id/active.  Deactivating a
// movie pulls all of its shows from availability results.
func (h *AdminHandler) SetMovieActive(c echo.Context) error {
	return h.setActive(c, func(id uint64, active bool) error {
		return h.MovieRepo.SetActive(c.Request().Context(), id, active)
	}, repository.ErrMovieNotFound, "movie not found")
}

// SetShowActive handles PATCH /v1/admin/shows/:id/active.  The right way to
// pull a show that already has bookings.
func (h *AdminHandler) SetShowActive(c echo.Context) error {
	return h.setActive(c, func(id uint64, active bool) error {
		return h.ShowRepo.SetActive(c.Request().Context(), id, active)
	}, repository.ErrShowNotFound, "show not found")
}

func (h *AdminHandler) setActive(c echo.Context, apply func(uint64, bool) error, notFound error, notFoundMsg string) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	active, err := bindActive(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	if err := apply(id, active); err != nil {
		if errors.Is(err, notFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": notFoundMsg})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"id": id, "active": active})
}

// UpdatePaymentStatus handles PATCH /v1/admin/bookings/:id/payment.  The
// transition rules apply: Pending resolves to Completed or Failed, Completed
// may later be Refunded.  Illegal moves answer 409.
func (h *AdminHandler) UpdatePaymentStatus(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req struct {
		Status model.PaymentStatus `json:"status"`
	}
	if err := c.Bind(&req); err != nil || !req.Status.IsValid() {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "status must be one of Pending, Completed, Failed, Refunded"})
	}
	if err := h.BookingRepo.UpdatePaymentStatus(c.Request().Context(), id, req.Status); err != nil {
		switch {
		case errors.Is(err, repository.ErrBookingNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		case errors.Is(err, repository.ErrInvalidTransition):
			return c.JSON(http.StatusConflict, echo.Map{"error": "payment status transition not allowed"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not update payment status"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"id": id, "payment_status": req.Status})
}
