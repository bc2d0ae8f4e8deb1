package service

import "errors"

// Domain errors surfaced to callers. Idempotency collisions are not in this
// list: a duplicate application of the same reference id is absorbed and the
// prior result returned.
var (
	// ErrInsufficientFunds rejects a stake the wallet cannot cover
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrInsufficientAvailableBalance rejects a withdrawal above the
	// account's withdrawable amount
	ErrInsufficientAvailableBalance = errors.New("insufficient available balance")

	// ErrInvalidStateTransition rejects a withdrawal transition the state
	// machine does not allow
	ErrInvalidStateTransition = errors.New("invalid state transition")

	// ErrUnknownGame rejects a round request for an unconfigured game
	ErrUnknownGame = errors.New("unknown game")

	// ErrAccountNotFound reports a missing or non-tier account
	ErrAccountNotFound = errors.New("account not found")

	// ErrRoundNotFound reports an unknown round id
	ErrRoundNotFound = errors.New("round not found")

	// ErrWithdrawalNotFound reports an unknown withdrawal id
	ErrWithdrawalNotFound = errors.New("withdrawal not found")

	// ErrUnauthorized rejects privileged operations from non-admin actors
	ErrUnauthorized = errors.New("unauthorized")
)
