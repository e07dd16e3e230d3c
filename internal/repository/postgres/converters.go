package postgres

import (
	"encoding/json"

	"cargotma/internal/domain"
)

type directionJSON struct {
	From string `json:"from"`
	To   string `json:"to"`
}

type volumeJSON struct {
	Length float64 `json:"length"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func marshalDirections(dirs []domain.Direction) ([]byte, error) {
	out := make([]directionJSON, 0, len(dirs))
	for _, d := range dirs {
		out = append(out, directionJSON{From: d.From, To: d.To})
	}
	return json.Marshal(out)
}

func unmarshalDirections(data []byte) ([]domain.Direction, error) {
	var in []directionJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return nil, err
	}
	dirs := make([]domain.Direction, 0, len(in))
	for _, d := range in {
		dirs = append(dirs, domain.Direction{From: d.From, To: d.To})
	}
	return dirs, nil
}

func marshalVolumes(volumes []domain.Dimensions) ([]byte, error) {
	out := make([]volumeJSON, 0, len(volumes))
	for _, v := range volumes {
		out = append(out, volumeJSON{Length: v.Length, Width: v.Width, Height: v.Height})
	}
	return json.Marshal(out)
}

func unmarshalVolumes(data []byte) ([]domain.Dimensions, error) {
	var in []volumeJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return nil, err
	}
	volumes := make([]domain.Dimensions, 0, len(in))
	for _, v := range in {
		volumes = append(volumes, domain.Dimensions{Length: v.Length, Width: v.Width, Height: v.Height})
	}
	return volumes, nil
}
