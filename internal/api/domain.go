package api

import (
	"github.com/JaimeStill/scribe/internal/config"
	"github.com/JaimeStill/scribe/internal/infrastructure"
	"github.com/JaimeStill/scribe/internal/upload"
)

// Domain holds the systems shared by every surface of the process.
// The server owns exactly one upload controller.
type Domain struct {
	Uploads *upload.Controller
}

// NewDomain creates all domain systems from the infrastructure.
func NewDomain(cfg *config.Config, infra *infrastructure.Infrastructure) *Domain {
	return &Domain{
		Uploads: upload.New(&cfg.Upload, infra.Backend, infra.Transfer, infra.Logger),
	}
}
