package service

import "errors"

var (
	ErrWrongCredentials = errors.New("wrong login or password")
	ErrSessionExpired   = errors.New("session expired")
	ErrNoSession        = errors.New("no stored session")

	ErrSyncAlreadyRunning = errors.New("sync cycle already running")
	ErrOffline            = errors.New("server considered offline")

	ErrUnknownOperation = errors.New("unknown operation type")
	ErrMutationInFlight = errors.New("mutation dispatch in flight")
	ErrMissingServerID  = errors.New("creation confirmed without a server id")

	ErrValidationEmptySKU        = errors.New("item sku is required")
	ErrValidationEmptyName       = errors.New("name is required")
	ErrValidationEmptyCode       = errors.New("container code is required")
	ErrValidationEmptyLocation   = errors.New("location reference is required")
	ErrValidationEmptyItem       = errors.New("item reference is required")
	ErrValidationEmptyRecordID   = errors.New("stock record id is required")
	ErrValidationNegativeQty     = errors.New("quantity must not be negative")
	ErrValidationZeroAdjustment  = errors.New("adjustment must not be zero")
	ErrValidationNoFieldsToApply = errors.New("update carries no fields")
)
