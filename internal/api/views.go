package api

import (
	"time"

	"github.com/hukshh/fitchekk/internal/domain"
)

// UserView exposes the public account fields.
type UserView struct {
	UserID      string     `json:"user_id"`
	UserName    string     `json:"user_name"`
	UserEmail   string     `json:"user_email"`
	XP          int        `json:"xp"`
	Streak      int        `json:"streak"`
	LastWorkout *time.Time `json:"last_workout,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

func toUserView(u domain.User) UserView {
	return UserView{
		UserID:      u.ID,
		UserName:    u.Name,
		UserEmail:   u.Email,
		XP:          u.XP,
		Streak:      u.Streak,
		LastWorkout: u.LastWorkout,
		CreatedAt:   u.CreatedAt,
	}
}

// AttendanceView exposes one session record.
type AttendanceView struct {
	AttendanceID    string     `json:"attendance_id"`
	UserID          string     `json:"user_id"`
	CheckIn         time.Time  `json:"check_in"`
	CheckOut        *time.Time `json:"check_out,omitempty"`
	DurationMinutes *int       `json:"duration_minutes,omitempty"`
}

func toAttendanceView(a domain.Attendance) AttendanceView {
	return AttendanceView{
		AttendanceID:    a.ID,
		UserID:          a.UserID,
		CheckIn:         a.CheckIn,
		CheckOut:        a.CheckOut,
		DurationMinutes: a.DurationMinutes,
	}
}

func toAttendanceViews(records []domain.Attendance) []AttendanceView {
	views := make([]AttendanceView, 0, len(records))
	for _, record := range records {
		views = append(views, toAttendanceView(record))
	}
	return views
}

// ExerciseView exposes a catalog exercise.
type ExerciseView struct {
	ExerciseID  string  `json:"exercise_id"`
	UserID      *string `json:"user_id,omitempty"`
	Name        string  `json:"name"`
	MuscleGroup string  `json:"muscle_group,omitempty"`
}

func toExerciseView(e domain.Exercise) ExerciseView {
	return ExerciseView{ExerciseID: e.ID, UserID: e.UserID, Name: e.Name, MuscleGroup: e.MuscleGroup}
}

// SetView exposes one workout set with its exercise.
type SetView struct {
	SetID      string        `json:"set_id"`
	WorkoutID  string        `json:"workout_id"`
	ExerciseID string        `json:"exercise_id"`
	Reps       int           `json:"reps"`
	Weight     *float64      `json:"weight,omitempty"`
	RPE        *int          `json:"rpe,omitempty"`
	Order      int           `json:"order"`
	Exercise   *ExerciseView `json:"exercise,omitempty"`
}

func toSetView(s domain.WorkoutSet) SetView {
	view := SetView{
		SetID:      s.ID,
		WorkoutID:  s.WorkoutID,
		ExerciseID: s.ExerciseID,
		Reps:       s.Reps,
		Weight:     s.Weight,
		RPE:        s.RPE,
		Order:      s.Order,
	}
	if s.Exercise != nil {
		exercise := toExerciseView(*s.Exercise)
		view.Exercise = &exercise
	}
	return view
}

// WorkoutView exposes a workout with ordered sets.
type WorkoutView struct {
	WorkoutID string    `json:"workout_id"`
	UserID    string    `json:"user_id"`
	Title     string    `json:"title"`
	Date      time.Time `json:"date"`
	Sets      []SetView `json:"sets"`
	CreatedAt time.Time `json:"created_at"`
}

func toWorkoutView(w domain.Workout) WorkoutView {
	sets := make([]SetView, 0, len(w.Sets))
	for _, s := range w.Sets {
		sets = append(sets, toSetView(s))
	}
	return WorkoutView{
		WorkoutID: w.ID,
		UserID:    w.UserID,
		Title:     w.Title,
		Date:      w.Date,
		Sets:      sets,
		CreatedAt: w.CreatedAt,
	}
}

// CategoryView exposes a store category.
type CategoryView struct {
	CategoryID   string `json:"category_id"`
	Name         string `json:"name"`
	Description  string `json:"description,omitempty"`
	ProductCount int    `json:"product_count"`
}

func toCategoryView(c domain.Category) CategoryView {
	return CategoryView{CategoryID: c.ID, Name: c.Name, Description: c.Description, ProductCount: c.ProductCount}
}

// ProductView exposes a store product.
type ProductView struct {
	ProductID   string        `json:"product_id"`
	CategoryID  string        `json:"category_id"`
	Name        string        `json:"name"`
	Description string        `json:"description,omitempty"`
	Price       float64       `json:"price"`
	Stock       int           `json:"stock"`
	ImageURL    string        `json:"image_url,omitempty"`
	Category    *CategoryView `json:"category,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
}

func toProductView(p domain.Product) ProductView {
	view := ProductView{
		ProductID:   p.ID,
		CategoryID:  p.CategoryID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Stock:       p.Stock,
		ImageURL:    p.ImageURL,
		CreatedAt:   p.CreatedAt,
	}
	if p.Category != nil {
		category := toCategoryView(*p.Category)
		view.Category = &category
	}
	return view
}

// CartItemView exposes one cart line.
type CartItemView struct {
	CartItemID string       `json:"cart_item_id"`
	ProductID  string       `json:"product_id"`
	Quantity   int          `json:"quantity"`
	Product    *ProductView `json:"product,omitempty"`
}

func toCartItemView(item domain.CartItem) CartItemView {
	view := CartItemView{CartItemID: item.ID, ProductID: item.ProductID, Quantity: item.Quantity}
	if item.Product != nil {
		product := toProductView(*item.Product)
		view.Product = &product
	}
	return view
}

// OrderItemView exposes one frozen order line.
type OrderItemView struct {
	OrderItemID string       `json:"order_item_id"`
	ProductID   string       `json:"product_id"`
	Quantity    int          `json:"quantity"`
	Price       float64      `json:"price"`
	Product     *ProductView `json:"product,omitempty"`
}

// OrderView exposes an order snapshot.
type OrderView struct {
	OrderID         string          `json:"order_id"`
	UserID          string          `json:"user_id"`
	TotalAmount     float64         `json:"total_amount"`
	Status          string          `json:"status"`
	ShippingAddress string          `json:"shipping_address"`
	Items           []OrderItemView `json:"items"`
	CreatedAt       time.Time       `json:"created_at"`
}

func toOrderView(o domain.Order) OrderView {
	items := make([]OrderItemView, 0, len(o.Items))
	for _, item := range o.Items {
		view := OrderItemView{
			OrderItemID: item.ID,
			ProductID:   item.ProductID,
			Quantity:    item.Quantity,
			Price:       item.Price,
		}
		if item.Product != nil {
			product := toProductView(*item.Product)
			view.Product = &product
		}
		items = append(items, view)
	}
	return OrderView{
		OrderID:         o.ID,
		UserID:          o.UserID,
		TotalAmount:     o.TotalAmount,
		Status:          string(o.Status),
		ShippingAddress: o.ShippingAddress,
		Items:           items,
		CreatedAt:       o.CreatedAt,
	}
}

// ProgressView exposes one body-measurement entry.
type ProgressView struct {
	LogID   string    `json:"log_id"`
	Weight  float64   `json:"weight"`
	BodyFat *float64  `json:"body_fat,omitempty"`
	Date    time.Time `json:"date"`
}

func toProgressView(log domain.ProgressLog) ProgressView {
	return ProgressView{LogID: log.ID, Weight: log.Weight, BodyFat: log.BodyFat, Date: log.Date}
}

// PaginationView packages page math for list responses.
type PaginationView struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
	Pages int `json:"pages"`
}

func toPaginationView(page, limit, total int) PaginationView {
	pages := 0
	if limit > 0 {
		pages = (total + limit - 1) / limit
	}
	return PaginationView{Page: page, Limit: limit, Total: total, Pages: pages}
}
