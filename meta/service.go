package meta

import "sync"

var (
	serviceName    string    //nolint:gochecknoglobals // process-wide service identity
	serviceVersion string    //nolint:gochecknoglobals // process-wide service identity
	once           sync.Once //nolint:gochecknoglobals // ensures SetServiceInfo is applied once
)

// SetServiceInfo sets the process-wide service name and version.
// Only the first call has an effect.
func SetServiceInfo(name, version string) {
	once.Do(func() {
		serviceName = name
		serviceVersion = version
	})
}

// ServiceNameValue returns the name passed to SetServiceInfo.
func ServiceNameValue() string {
	return serviceName
}

// ServiceVersionValue returns the version passed to SetServiceInfo.
func ServiceVersionValue() string {
	return serviceVersion
}
