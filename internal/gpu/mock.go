package gpu

// MockProvider provides fake GPU data for tests and for explicit opt-in runs
// on machines without a GPU (-gpu mock). It is never selected implicitly.
type MockProvider struct {
	Devices     []DeviceInfo
	InitErr     error
	ShutdownErr error
	InitCalls   int
	Shutdowns   int
}

func NewMockProvider(devices ...DeviceInfo) *MockProvider {
	return &MockProvider{Devices: devices}
}

// DefaultMockDevice is a plausible single-GPU layout for tests.
func DefaultMockDevice() DeviceInfo {
	return DeviceInfo{
		Index:         0,
		UUID:          "GPU-mock-0000",
		Name:          "Mock GPU 24GB",
		MemoryTotalMB: 24576,
		MemoryUsedMB:  512,
		DriverVersion: "0.0",
	}
}

func (p *MockProvider) Init() error {
	p.InitCalls++
	return p.InitErr
}

func (p *MockProvider) Shutdown() error {
	p.Shutdowns++
	return p.ShutdownErr
}

func (p *MockProvider) DeviceCount() (int, error) {
	return len(p.Devices), nil
}

func (p *MockProvider) DeviceInfo(index int) (DeviceInfo, error) {
	if index < 0 || index >= len(p.Devices) {
		return DeviceInfo{}, errOutOfRange
	}
	return p.Devices[index], nil
}

// Compile-time interface check
var _ Provider = (*MockProvider)(nil)

type rangeError struct{}

func (rangeError) Error() string { return "device index out of range" }

var errOutOfRange = rangeError{}
