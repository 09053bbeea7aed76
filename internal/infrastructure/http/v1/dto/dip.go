package dto

import (
	"fuelrecon/internal/core/apperror"
	"fuelrecon/internal/core/fueltype"
	"fuelrecon/internal/core/period"
	"fuelrecon/internal/core/types"
	"fuelrecon/internal/domain/dip"
)

// DipRow is one dip reading in a batch submission. Litres values are
// decimal strings so no precision is lost in transport.
type DipRow struct {
	StationID     string  `json:"stationId" binding:"required"`
	StationTankID string  `json:"stationTankId" binding:"required"`
	FuelType      string  `json:"fuelType" binding:"required"`
	Date          string  `json:"date" binding:"required"`
	Level         int     `json:"level"`
	Litres        string  `json:"litres" binding:"required"`
	Delivery      *string `json:"delivery,omitempty"`
}

// DipBatchRequest is the body of POST /dips.
type DipBatchRequest struct {
	Dips []DipRow `json:"dips" binding:"required,min=1"`
}

// ToInputs converts the request rows into domain inputs.
func (req *DipBatchRequest) ToInputs() ([]dip.Input, error) {
	inputs := make([]dip.Input, 0, len(req.Dips))
	for i := range req.Dips {
		row := &req.Dips[i]

		ft, err := fueltype.Parse(row.FuelType)
		if err != nil {
			return nil, err
		}
		date, err := period.ParseDate(row.Date)
		if err != nil {
			return nil, err
		}
		litres, err := types.NewLitresFromString(row.Litres)
		if err != nil {
			return nil, apperror.NewValidation("invalid litres value").
				WithDetail("value", row.Litres).
				WithCause(err)
		}

		input := dip.Input{
			Reading: dip.Reading{
				StationID:     row.StationID,
				StationTankID: row.StationTankID,
				FuelType:      ft,
				Date:          date,
				Level:         row.Level,
				Litres:        litres,
			},
		}
		if row.Delivery != nil {
			delivered, err := types.NewLitresFromString(*row.Delivery)
			if err != nil {
				return nil, apperror.NewValidation("invalid delivery value").
					WithDetail("value", *row.Delivery).
					WithCause(err)
			}
			input.Delivery = &delivered
		}
		inputs = append(inputs, input)
	}
	return inputs, nil
}
