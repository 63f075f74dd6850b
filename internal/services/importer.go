package services

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/foodlog/internal/common"
	"github.com/dmitrijs2005/foodlog/internal/dbx"
	"github.com/dmitrijs2005/foodlog/internal/logging"
	"github.com/dmitrijs2005/foodlog/internal/models"
	"github.com/dmitrijs2005/foodlog/internal/nutrients"
	"github.com/dmitrijs2005/foodlog/internal/repomanager"
	"github.com/go-playground/validator/v10"
)

// FoodRecord is the JSON shape of one food in an import or export file.
// Every nutrient key is required; a zero value must be written explicitly.
type FoodRecord struct {
	FoodDescription    *string  `json:"FoodDescription" validate:"required"`
	Energy             *float64 `json:"Energy" validate:"required"`
	Protein            *float64 `json:"Protein" validate:"required"`
	FatTotal           *float64 `json:"FatTotal" validate:"required"`
	SaturatedFat       *float64 `json:"SaturatedFat" validate:"required"`
	TransFat           *float64 `json:"TransFat" validate:"required"`
	PolyunsaturatedFat *float64 `json:"PolyunsaturatedFat" validate:"required"`
	MonounsaturatedFat *float64 `json:"MonounsaturatedFat" validate:"required"`
	Carbohydrate       *float64 `json:"Carbohydrate" validate:"required"`
	Sugars             *float64 `json:"Sugars" validate:"required"`
	DietaryFibre       *float64 `json:"DietaryFibre" validate:"required"`
	SodiumNa           *float64 `json:"SodiumNa" validate:"required"`
	CalciumCa          *float64 `json:"CalciumCa" validate:"required"`
	PotassiumK         *float64 `json:"PotassiumK" validate:"required"`
	ThiaminB1          *float64 `json:"ThiaminB1" validate:"required"`
	RiboflavinB2       *float64 `json:"RiboflavinB2" validate:"required"`
	NiacinB3           *float64 `json:"NiacinB3" validate:"required"`
	Folate             *float64 `json:"Folate" validate:"required"`
	IronFe             *float64 `json:"IronFe" validate:"required"`
	MagnesiumMg        *float64 `json:"MagnesiumMg" validate:"required"`
	VitaminC           *float64 `json:"VitaminC" validate:"required"`
	Caffeine           *float64 `json:"Caffeine" validate:"required"`
	Cholesterol        *float64 `json:"Cholesterol" validate:"required"`
	Alcohol            *float64 `json:"Alcohol" validate:"required"`
	Notes              string   `json:"notes,omitempty"`
}

// Vector returns the nutrients of a validated record.
func (r *FoodRecord) Vector() (nutrients.Vector, error) {
	return nutrients.FromValues([]float64{
		*r.Energy, *r.Protein, *r.FatTotal, *r.SaturatedFat, *r.TransFat,
		*r.PolyunsaturatedFat, *r.MonounsaturatedFat, *r.Carbohydrate, *r.Sugars,
		*r.DietaryFibre, *r.SodiumNa, *r.CalciumCa, *r.PotassiumK, *r.ThiaminB1,
		*r.RiboflavinB2, *r.NiacinB3, *r.Folate, *r.IronFe, *r.MagnesiumMg,
		*r.VitaminC, *r.Caffeine, *r.Cholesterol, *r.Alcohol,
	})
}

// NewFoodRecord converts a stored food into its JSON shape.
func NewFoodRecord(f *models.Food) FoodRecord {
	desc := f.Description
	vals := f.Nutrients.Values()
	return FoodRecord{
		FoodDescription:    &desc,
		Energy:             &vals[0],
		Protein:            &vals[1],
		FatTotal:           &vals[2],
		SaturatedFat:       &vals[3],
		TransFat:           &vals[4],
		PolyunsaturatedFat: &vals[5],
		MonounsaturatedFat: &vals[6],
		Carbohydrate:       &vals[7],
		Sugars:             &vals[8],
		DietaryFibre:       &vals[9],
		SodiumNa:           &vals[10],
		CalciumCa:          &vals[11],
		PotassiumK:         &vals[12],
		ThiaminB1:          &vals[13],
		RiboflavinB2:       &vals[14],
		NiacinB3:           &vals[15],
		Folate:             &vals[16],
		IronFe:             &vals[17],
		MagnesiumMg:        &vals[18],
		VitaminC:           &vals[19],
		Caffeine:           &vals[20],
		Cholesterol:        &vals[21],
		Alcohol:            &vals[22],
		Notes:              f.Notes,
	}
}

// ImportService moves foods in and out of JSON files.
type ImportService interface {
	// Import reads one object or an array of objects. Either every record is
	// stored or none is.
	Import(ctx context.Context, r io.Reader) ([]int64, error)

	// Export writes the given foods, or every food when ids is empty, as a
	// JSON array Import accepts.
	Export(ctx context.Context, w io.Writer, ids []int64) error
}

type importService struct {
	db       *sql.DB
	rm       repomanager.RepositoryManager
	logger   logging.Logger
	validate *validator.Validate
}

func NewImportService(db *sql.DB, rm repomanager.RepositoryManager, logger logging.Logger) ImportService {
	return &importService{db: db, rm: rm, logger: logger, validate: validator.New()}
}

// decodeRecords accepts either a JSON object or a JSON array of objects.
func decodeRecords(data []byte) ([]FoodRecord, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("%w: empty import", common.ErrValidation)
	}
	var records []FoodRecord
	if trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &records); err != nil {
			return nil, fmt.Errorf("%w: %w", common.ErrValidation, err)
		}
		return records, nil
	}
	var one FoodRecord
	if err := json.Unmarshal(trimmed, &one); err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrValidation, err)
	}
	return append(records, one), nil
}

func (s *importService) toFoods(records []FoodRecord) ([]*models.Food, error) {
	out := make([]*models.Food, 0, len(records))
	for i := range records {
		r := &records[i]
		if err := s.validate.Struct(r); err != nil {
			var verrs validator.ValidationErrors
			if errors.As(err, &verrs) && len(verrs) > 0 {
				return nil, fmt.Errorf("%w: record %d: missing %s", common.ErrValidation, i+1, verrs[0].Field())
			}
			return nil, fmt.Errorf("%w: record %d: %w", common.ErrValidation, i+1, err)
		}
		desc := strings.TrimSpace(*r.FoodDescription)
		if desc == "" {
			return nil, fmt.Errorf("%w: record %d: blank FoodDescription", common.ErrValidation, i+1)
		}
		v, err := r.Vector()
		if err != nil {
			return nil, err
		}
		out = append(out, models.NewFood(desc, v, r.Notes))
	}
	return out, nil
}

func (s *importService) Import(ctx context.Context, r io.Reader) ([]int64, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read import: %w", err)
	}
	records, err := decodeRecords(data)
	if err != nil {
		return nil, err
	}
	foods, err := s.toFoods(records)
	if err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(foods))
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.rm.Foods(tx)
		for _, f := range foods {
			id, err := repo.Insert(ctx, f)
			if err != nil {
				return err
			}
			ids = append(ids, id)
		}
		return nil
	})
	if err != nil {
		return nil, common.WrapPersistence("import foods", err)
	}
	s.logger.Info(ctx, "foods imported", "rows", len(ids))
	return ids, nil
}

func (s *importService) Export(ctx context.Context, w io.Writer, ids []int64) error {
	repo := s.rm.Foods(s.db)
	var foods []models.Food
	if len(ids) == 0 {
		all, err := repo.List(ctx, "")
		if err != nil {
			return common.WrapPersistence("export foods", err)
		}
		foods = all
	} else {
		for _, id := range ids {
			f, err := repo.GetByID(ctx, id)
			if err != nil {
				return common.WrapPersistence("export foods", err)
			}
			foods = append(foods, *f)
		}
	}

	records := make([]FoodRecord, 0, len(foods))
	for i := range foods {
		records = append(records, NewFoodRecord(&foods[i]))
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	return nil
}
