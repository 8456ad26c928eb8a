package handlers

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/UmangSachdeva/MessMate/helpers"
	"github.com/UmangSachdeva/MessMate/middleware"
	"github.com/UmangSachdeva/MessMate/models"
	"github.com/UmangSachdeva/MessMate/services"
	"github.com/UmangSachdeva/MessMate/store"
	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const maxUploadSize = 5 << 20

// Services is everything the handlers call into.
type Services struct {
	Auth          *services.AuthService
	Users         *services.UserService
	Wallet        *services.WalletService
	Payments      *services.PaymentService
	Menu          *services.MenuService
	Bookings      *services.BookingService
	Inventory     *services.InventoryService
	Feedback      *services.FeedbackService
	Notifications *services.NotificationService
	Analytics     *services.AnalyticsService
	Reports       *services.ReportService
}

type Handler struct {
	svc Services
	res helpers.Responder
}

func New(svc Services, res helpers.Responder) *Handler {
	return &Handler{svc: svc, res: res}
}

type caller struct {
	ID   primitive.ObjectID
	Role models.Role
}

func (c caller) isAdmin() bool { return c.Role == models.RoleAdmin }

// currentUser reads the claims the auth middleware stored for this request.
func currentUser(r *http.Request) (caller, error) {
	claims, ok := middleware.ClaimsFrom(r)
	if !ok {
		return caller{}, fmt.Errorf("%w: not authenticated", models.ErrUnauthorized)
	}
	id, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return caller{}, fmt.Errorf("%w: invalid user id in token", models.ErrUnauthorized)
	}
	return caller{ID: id, Role: models.Role(claims.Role)}, nil
}

func pathID(r *http.Request, name string) (primitive.ObjectID, error) {
	return services.ParseID(mux.Vars(r)[name])
}

// convertStringToDateTime parses a YYYY-MM-DD query value; empty means unset.
func convertStringToDateTime(dateStr string) (time.Time, error) {
	if dateStr == "" {
		return time.Time{}, nil
	}
	return services.ParseDay(dateStr)
}

// dateRange reads start_date and end_date. end_date covers its whole day.
func dateRange(r *http.Request) (store.DateRange, error) {
	from, err := convertStringToDateTime(r.URL.Query().Get("start_date"))
	if err != nil {
		return store.DateRange{}, err
	}
	to, err := convertStringToDateTime(r.URL.Query().Get("end_date"))
	if err != nil {
		return store.DateRange{}, err
	}
	if !to.IsZero() {
		to = to.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}
	if !from.IsZero() && !to.IsZero() && to.Before(from) {
		return store.DateRange{}, fmt.Errorf("%w: end_date before start_date", models.ErrValidation)
	}
	return store.DateRange{From: from, To: to}, nil
}

func queryBool(r *http.Request, name string) (bool, bool) {
	v, err := strconv.ParseBool(r.URL.Query().Get(name))
	return v, err == nil
}

// uploadedFile returns the multipart file under field. The caller closes it.
func uploadedFile(w http.ResponseWriter, r *http.Request, field string) (io.ReadCloser, string, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		return nil, "", fmt.Errorf("%w: invalid upload: %v", models.ErrValidation, err)
	}
	file, header, err := r.FormFile(field)
	if err != nil {
		return nil, "", fmt.Errorf("%w: missing %s file", models.ErrValidation, field)
	}
	return file, header.Filename, nil
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	h.res.OK(w, "", map[string]interface{}{"status": "healthy", "time": time.Now()})
}
