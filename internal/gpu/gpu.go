package gpu

import "fmt"

// DeviceInfo is a static description of one GPU.
type DeviceInfo struct {
	Index         int
	UUID          string
	Name          string
	MemoryTotalMB uint64
	MemoryUsedMB  uint64
	DriverVersion string
}

// Provider abstracts GPU discovery so the daemon can run against real NVML
// or a mock in tests. Init must be called before any other method and
// Shutdown when the process exits.
type Provider interface {
	Init() error
	Shutdown() error
	DeviceCount() (int, error)
	DeviceInfo(index int) (DeviceInfo, error)
}

// Device is the process-lifetime handle to one GPU. It is acquired exactly
// once before the server starts serving and released only at shutdown.
type Device struct {
	info     DeviceInfo
	provider Provider
}

// Acquire initializes the provider and resolves the device at index.
// Any failure (no driver, no device, bad index) is returned to the caller,
// which is expected to treat it as fatal. There is no CPU fallback.
func Acquire(p Provider, index int) (*Device, error) {
	if err := p.Init(); err != nil {
		return nil, fmt.Errorf("gpu init: %w", err)
	}
	count, err := p.DeviceCount()
	if err != nil {
		_ = p.Shutdown()
		return nil, fmt.Errorf("gpu device count: %w", err)
	}
	if count == 0 {
		_ = p.Shutdown()
		return nil, fmt.Errorf("no GPU devices present")
	}
	if index < 0 || index >= count {
		_ = p.Shutdown()
		return nil, fmt.Errorf("gpu index %d out of range (have %d devices)", index, count)
	}
	info, err := p.DeviceInfo(index)
	if err != nil {
		_ = p.Shutdown()
		return nil, fmt.Errorf("gpu device %d: %w", index, err)
	}
	return &Device{info: info, provider: p}, nil
}

// Info returns the device description captured at acquisition.
func (d *Device) Info() DeviceInfo { return d.info }

// Refresh re-reads volatile fields (used memory) from the provider.
func (d *Device) Refresh() (DeviceInfo, error) {
	info, err := d.provider.DeviceInfo(d.info.Index)
	if err != nil {
		return d.info, err
	}
	d.info.MemoryUsedMB = info.MemoryUsedMB
	return d.info, nil
}

// Release shuts down the provider. Call once, at process exit.
func (d *Device) Release() error {
	return d.provider.Shutdown()
}
