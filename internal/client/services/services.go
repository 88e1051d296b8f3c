// Package services contains the banking application services of the client.
//
// Every service talks to the backend through an API (the authenticated
// gateway). Services validate their inputs before any request is sent and
// return gateway errors wrapped with the failing operation, so callers can
// still match gateway.ErrUnauthorized and read gateway.MessageOf.
package services

import (
	"context"
	"fmt"
	"strconv"

	"github.com/dmitrijs2005/bankclient/internal/client/gateway"
	"github.com/dmitrijs2005/bankclient/internal/common"
)

// API is the subset of *gateway.Gateway used by the services.
type API interface {
	Get(ctx context.Context, path string, opts ...gateway.RequestOption) (*gateway.Response, error)
	Post(ctx context.Context, path string, body any, opts ...gateway.RequestOption) (*gateway.Response, error)
	Put(ctx context.Context, path string, body any, opts ...gateway.RequestOption) (*gateway.Response, error)
	Delete(ctx context.Context, path string, opts ...gateway.RequestOption) (*gateway.Response, error)
}

const (
	DefaultPageSize = 10
	// MinTransferAmount mirrors the backend's lower bound for transfers.
	MinTransferAmount = 1.0
)

func validateAmount(amount float64) error {
	if !(amount > 0) {
		return fmt.Errorf("%w: amount must be greater than zero", common.ErrValidation)
	}
	return nil
}

func pageQuery(page, size int) []gateway.RequestOption {
	if page < 0 {
		page = 0
	}
	if size <= 0 {
		size = DefaultPageSize
	}
	return []gateway.RequestOption{
		gateway.WithQuery("page", strconv.Itoa(page)),
		gateway.WithQuery("size", strconv.Itoa(size)),
	}
}
