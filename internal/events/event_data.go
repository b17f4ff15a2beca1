package events

import "time"

// EventData is the interface that all event data types must implement
type EventData interface {
	// EventType returns the event type this data is associated with
	EventType() EventType
}

// PriceUpdatedData contains data for PriceUpdated events
type PriceUpdatedData struct {
	Symbol        string  `json:"symbol"`
	Price         float64 `json:"price"`
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"change_percent"`
	Volume        int64   `json:"volume"`
}

// EventType returns the event type for PriceUpdatedData
func (d *PriceUpdatedData) EventType() EventType {
	return PriceUpdated
}

// SymbolRefresh is the per-symbol outcome carried by RefreshCompleted
type SymbolRefresh struct {
	Symbol        string  `json:"symbol"`
	Price         float64 `json:"price"`
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"change_percent"`
	Volume        int64   `json:"volume"`
	AlertFired    bool    `json:"alert_fired"`
}

// RefreshCompletedData contains data for RefreshCompleted events
type RefreshCompletedData struct {
	Trigger    string          `json:"trigger"`
	Updated    []SymbolRefresh `json:"updated"`
	Failed     []string        `json:"failed,omitempty"`
	DurationMs int64           `json:"duration_ms"`
}

// EventType returns the event type for RefreshCompletedData
func (d *RefreshCompletedData) EventType() EventType {
	return RefreshCompleted
}

// AlertTriggeredData contains data for AlertTriggered events
type AlertTriggeredData struct {
	AlertID     string    `json:"alert_id"`
	Symbol      string    `json:"symbol"`
	Direction   string    `json:"direction"`
	Target      float64   `json:"target"`
	Price       float64   `json:"price"`
	Message     string    `json:"message"`
	TriggeredAt time.Time `json:"triggered_at"`
}

// EventType returns the event type for AlertTriggeredData
func (d *AlertTriggeredData) EventType() EventType {
	return AlertTriggered
}

// HoldingAddedData contains data for HoldingAdded events
type HoldingAddedData struct {
	HoldingID     string  `json:"holding_id"`
	Symbol        string  `json:"symbol"`
	Shares        int     `json:"shares"`
	PurchasePrice float64 `json:"purchase_price"`
}

// EventType returns the event type for HoldingAddedData
func (d *HoldingAddedData) EventType() EventType {
	return HoldingAdded
}

// HoldingRemovedData contains data for HoldingRemoved events
type HoldingRemovedData struct {
	Symbol  string `json:"symbol"`
	Removed int    `json:"removed"`
}

// EventType returns the event type for HoldingRemovedData
func (d *HoldingRemovedData) EventType() EventType {
	return HoldingRemoved
}

// WatchlistChangedData contains data for WatchlistChanged events
type WatchlistChangedData struct {
	Symbol string `json:"symbol"`
	Action string `json:"action"` // "added" or "removed"
}

// EventType returns the event type for WatchlistChangedData
func (d *WatchlistChangedData) EventType() EventType {
	return WatchlistChanged
}

// ReportGeneratedData contains data for ReportGenerated events
type ReportGeneratedData struct {
	Portfolio       string  `json:"portfolio"`
	CurrentValue    float64 `json:"current_value"`
	GainLossPercent float64 `json:"gain_loss_percent"`
	Recommendation  string  `json:"recommendation"`
}

// EventType returns the event type for ReportGeneratedData
func (d *ReportGeneratedData) EventType() EventType {
	return ReportGenerated
}

// ErrorEventData contains data for ErrorOccurred events
type ErrorEventData struct {
	Error   string                 `json:"error"`
	Context map[string]interface{} `json:"context,omitempty"`
}

// EventType returns the event type for ErrorEventData
func (d *ErrorEventData) EventType() EventType {
	return ErrorOccurred
}
