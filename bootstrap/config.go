package bootstrap

import (
	"github.com/kbukum/medsum/config"
)

// Config is satisfied by any struct embedding config.ServiceConfig that
// adds its own ApplyDefaults and Validate.
type Config interface {
	GetServiceConfig() *config.ServiceConfig
	ApplyDefaults()
	Validate() error
}
