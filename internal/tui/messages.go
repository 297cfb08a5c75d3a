package tui

import (
	"github.com/MKrupin/go-stock-keeper/internal/service"
	"github.com/MKrupin/go-stock-keeper/models"
)

type loginDoneMsg struct {
	err error
}

type stateChangedMsg struct{}

type overviewLoadedMsg struct {
	status models.SyncStatus
	err    error
}

type queueLoadedMsg struct {
	rows []service.MutationView
	err  error
}

type dataLoadedMsg struct {
	items      []models.Item
	locations  []models.Location
	containers []models.Container
	inventory  []models.InventoryRecord
	categories []models.Category
	err        error
}

type enqueueDoneMsg struct {
	tempID string
	err    error
}

type queueActionDoneMsg struct {
	err error
}

type copiedMsg struct {
	err error
}

type clearStatusMsg struct{}
