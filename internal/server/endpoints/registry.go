package endpoints

import (
	"github.com/jackzampolin/pdfsift/internal/api"
)

// All returns all endpoint instances.
func All() []api.Endpoint {
	return []api.Endpoint{
		&HealthEndpoint{},

		// Run control
		&StartRunEndpoint{},
		&PauseRunEndpoint{},
		&ResumeRunEndpoint{},
		&CancelRunEndpoint{},

		// Run observation
		&RunStatusEndpoint{},
		&RunResultsEndpoint{},
		&ExportRunEndpoint{},
	}
}

// RunCommands returns the endpoints grouped under "api runs".
func RunCommands() []api.Endpoint {
	return []api.Endpoint{
		&StartRunEndpoint{},
		&PauseRunEndpoint{},
		&ResumeRunEndpoint{},
		&CancelRunEndpoint{},
		&RunStatusEndpoint{},
		&RunResultsEndpoint{},
		&ExportRunEndpoint{},
	}
}
