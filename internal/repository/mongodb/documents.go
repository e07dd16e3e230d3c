package mongodb

import (
	"time"

	"cargotma/internal/domain"
)

// Field names follow the collections' existing document layout.

type dimensionsDocument struct {
	Length float64 `bson:"length"`
	Width  float64 `bson:"width"`
	Height float64 `bson:"height"`
}

type directionDocument struct {
	From string `bson:"from"`
	To   string `bson:"to"`
}

type orderDocument struct {
	ID             string             `bson:"_id"`
	From           string             `bson:"from"`
	To             string             `bson:"to"`
	Dimensions     dimensionsDocument `bson:"dimensions"`
	PaymentAmount  float64            `bson:"paymentAmount"`
	Status         string             `bson:"status"`
	CreatedBy      string             `bson:"createdBy"`
	AssignedDriver string             `bson:"assignedDriver,omitempty"`
	ChatID         string             `bson:"chatId,omitempty"`
	CreatedAt      time.Time          `bson:"createdAt"`
	UpdatedAt      time.Time          `bson:"updatedAt"`
}

type driverDocument struct {
	ID                 string               `bson:"_id"`
	UserID             string               `bson:"userId"`
	PriorityDirections []directionDocument  `bson:"priorityDirections"`
	ExcludedDirections []directionDocument  `bson:"excludedDirections"`
	CargoVolumes       []dimensionsDocument `bson:"cargoVolumes"`
	CreatedAt          time.Time            `bson:"createdAt"`
	UpdatedAt          time.Time            `bson:"updatedAt"`
}

type bidDocument struct {
	ID        string    `bson:"_id"`
	OrderID   string    `bson:"orderId"`
	DriverID  string    `bson:"driverId"`
	Amount    float64   `bson:"amount"`
	CreatedAt time.Time `bson:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

func toDimensionsDocument(d domain.Dimensions) dimensionsDocument {
	return dimensionsDocument{Length: d.Length, Width: d.Width, Height: d.Height}
}

func (d dimensionsDocument) toDomain() domain.Dimensions {
	return domain.Dimensions{Length: d.Length, Width: d.Width, Height: d.Height}
}

func toOrderDocument(o *domain.Order) orderDocument {
	return orderDocument{
		ID:             o.ID,
		From:           o.From,
		To:             o.To,
		Dimensions:     toDimensionsDocument(o.Dimensions),
		PaymentAmount:  o.PaymentAmount,
		Status:         string(o.Status),
		CreatedBy:      o.CreatedBy,
		AssignedDriver: o.AssignedDriver,
		ChatID:         o.ChatID,
		CreatedAt:      o.CreatedAt,
		UpdatedAt:      o.UpdatedAt,
	}
}

func (d orderDocument) toDomain() *domain.Order {
	return &domain.Order{
		ID:             d.ID,
		From:           d.From,
		To:             d.To,
		Dimensions:     d.Dimensions.toDomain(),
		PaymentAmount:  d.PaymentAmount,
		Status:         domain.OrderStatus(d.Status),
		CreatedBy:      d.CreatedBy,
		AssignedDriver: d.AssignedDriver,
		ChatID:         d.ChatID,
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      d.UpdatedAt,
	}
}

func toDirectionDocuments(dirs []domain.Direction) []directionDocument {
	out := make([]directionDocument, 0, len(dirs))
	for _, d := range dirs {
		out = append(out, directionDocument{From: d.From, To: d.To})
	}
	return out
}

func toVolumeDocuments(volumes []domain.Dimensions) []dimensionsDocument {
	out := make([]dimensionsDocument, 0, len(volumes))
	for _, v := range volumes {
		out = append(out, toDimensionsDocument(v))
	}
	return out
}

func toDriverDocument(d *domain.Driver) driverDocument {
	return driverDocument{
		ID:                 d.ID,
		UserID:             d.UserID,
		PriorityDirections: toDirectionDocuments(d.PriorityDirections),
		ExcludedDirections: toDirectionDocuments(d.ExcludedDirections),
		CargoVolumes:       toVolumeDocuments(d.CargoVolumes),
		CreatedAt:          d.CreatedAt,
		UpdatedAt:          d.UpdatedAt,
	}
}

func (d driverDocument) toDomain() *domain.Driver {
	driver := &domain.Driver{
		ID:                 d.ID,
		UserID:             d.UserID,
		PriorityDirections: make([]domain.Direction, 0, len(d.PriorityDirections)),
		ExcludedDirections: make([]domain.Direction, 0, len(d.ExcludedDirections)),
		CargoVolumes:       make([]domain.Dimensions, 0, len(d.CargoVolumes)),
		CreatedAt:          d.CreatedAt,
		UpdatedAt:          d.UpdatedAt,
	}
	for _, dir := range d.PriorityDirections {
		driver.PriorityDirections = append(driver.PriorityDirections, domain.Direction{From: dir.From, To: dir.To})
	}
	for _, dir := range d.ExcludedDirections {
		driver.ExcludedDirections = append(driver.ExcludedDirections, domain.Direction{From: dir.From, To: dir.To})
	}
	for _, v := range d.CargoVolumes {
		driver.CargoVolumes = append(driver.CargoVolumes, v.toDomain())
	}
	return driver
}

func toBidDocument(b *domain.Bid) bidDocument {
	return bidDocument{
		ID:        b.ID,
		OrderID:   b.OrderID,
		DriverID:  b.DriverID,
		Amount:    b.Amount,
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.CreatedAt,
	}
}

func (d bidDocument) toDomain() *domain.Bid {
	return &domain.Bid{
		ID:        d.ID,
		OrderID:   d.OrderID,
		DriverID:  d.DriverID,
		Amount:    d.Amount,
		CreatedAt: d.CreatedAt,
	}
}
