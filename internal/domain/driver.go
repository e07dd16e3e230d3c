package domain

import "time"

// Direction is a from/to route pair. Endpoints are compared exactly.
type Direction struct {
	From string
	To   string
}

// Driver represents a transporter's profile. There is at most one driver
// profile per user.
type Driver struct {
	ID                 string
	UserID             string
	PriorityDirections []Direction
	ExcludedDirections []Direction
	CargoVolumes       []Dimensions // centimetres
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// OverlappingDirections returns routes present in both the priority and the
// excluded sets.
func (d *Driver) OverlappingDirections() []Direction {
	excluded := make(map[Direction]struct{}, len(d.ExcludedDirections))
	for _, dir := range d.ExcludedDirections {
		excluded[dir] = struct{}{}
	}

	var overlap []Direction
	for _, dir := range d.PriorityDirections {
		if _, ok := excluded[dir]; ok {
			overlap = append(overlap, dir)
		}
	}
	return overlap
}

// Key returns a printable form of the route, used in logs and metrics.
func (d Direction) Key() string {
	return d.From + "->" + d.To
}
