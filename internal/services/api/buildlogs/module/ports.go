package module

import "codeeditor/internal/services/api/buildlogs/domain"

// Ports is the build logs port set
type Ports = domain.Ports

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }
