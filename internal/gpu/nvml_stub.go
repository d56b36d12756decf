//go:build nonvml

package gpu

import "fmt"

// NVMLProvider stub - used when building without NVIDIA libraries.
// Every call fails so a misconfigured build cannot serve silently.
type NVMLProvider struct{}

func NewNVMLProvider() *NVMLProvider { return &NVMLProvider{} }

func (p *NVMLProvider) Init() error {
	return fmt.Errorf("NVML not available (built with nonvml tag)")
}

func (p *NVMLProvider) Shutdown() error { return nil }

func (p *NVMLProvider) DeviceCount() (int, error) {
	return 0, fmt.Errorf("NVML not available")
}

func (p *NVMLProvider) DeviceInfo(index int) (DeviceInfo, error) {
	return DeviceInfo{}, fmt.Errorf("NVML not available")
}

// Compile-time interface check
var _ Provider = (*NVMLProvider)(nil)
