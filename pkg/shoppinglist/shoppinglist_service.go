package shoppinglist

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"

	"Foodgram-Backend/domain"
)

const (
	reportHeader = "Shopping list:"
	emptyReport  = "Shopping list is empty."
)

var csvHeaders = []string{"ingredient", "quantity", "unit"}

type (
	ShoppingListService interface {
		Aggregate(ctx context.Context, userID string) ([]domain.ShoppingListItem, error)
		RenderText(ctx context.Context, userID string) (string, error)
		RenderCSV(ctx context.Context, userID string) ([]byte, error)
	}

	shoppingListService struct {
		shoppingListRepository ShoppingListRepository
	}
)

func NewShoppingListService(shoppingListRepository ShoppingListRepository) ShoppingListService {
	return &shoppingListService{shoppingListRepository: shoppingListRepository}
}

// Aggregate is read-only and touches only the calling user's cart, so
// concurrent callers need no locking.
func (s *shoppingListService) Aggregate(ctx context.Context, userID string) ([]domain.ShoppingListItem, error) {
	lines, err := s.shoppingListRepository.AggregateCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	items := make([]domain.ShoppingListItem, 0, len(lines))
	for _, line := range lines {
		items = append(items, domain.ShoppingListItem{
			Name:            line.Name,
			TotalAmount:     line.TotalAmount,
			MeasurementUnit: line.MeasurementUnit,
		})
	}
	return items, nil
}

// RenderText produces the downloadable report: a header line followed by one
// line per aggregated group. An empty cart yields an explicit empty notice,
// never an empty body.
func (s *shoppingListService) RenderText(ctx context.Context, userID string) (string, error) {
	items, err := s.Aggregate(ctx, userID)
	if err != nil {
		return "", err
	}

	if len(items) == 0 {
		return emptyReport + "\n", nil
	}

	var buf bytes.Buffer
	buf.WriteString(reportHeader + "\n")
	for _, item := range items {
		fmt.Fprintf(&buf, "%s - %d %s\n", item.Name, item.TotalAmount, item.MeasurementUnit)
	}
	return buf.String(), nil
}

func (s *shoppingListService) RenderCSV(ctx context.Context, userID string) ([]byte, error) {
	items, err := s.Aggregate(ctx, userID)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	if err := writer.Write(csvHeaders); err != nil {
		return nil, err
	}
	for _, item := range items {
		record := []string{item.Name, fmt.Sprintf("%d", item.TotalAmount), item.MeasurementUnit}
		if err := writer.Write(record); err != nil {
			return nil, err
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
