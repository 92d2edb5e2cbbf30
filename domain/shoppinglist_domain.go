package domain

var (
	MessageSuccessDownloadList = "shopping list downloaded"
	MessageFailedDownloadList  = "failed to download shopping list"
)

type (
	// ShoppingListItem is one aggregated group: all cart ingredient lines
	// sharing the same name and measurement unit, amounts summed.
	ShoppingListItem struct {
		Name            string `json:"ingredient"`
		TotalAmount     int    `json:"quantity"`
		MeasurementUnit string `json:"unit"`
	}
)
