//go:build !nonvml

package gpu

import (
	"fmt"

	"github.com/NVIDIA/go-nvml/pkg/nvml"
)

// NVMLProvider resolves devices through the NVIDIA management library.
type NVMLProvider struct{}

func NewNVMLProvider() *NVMLProvider { return &NVMLProvider{} }

func (p *NVMLProvider) Init() error {
	if ret := nvml.Init(); ret != nvml.SUCCESS {
		return fmt.Errorf("NVML init failed: %v", nvml.ErrorString(ret))
	}
	return nil
}

func (p *NVMLProvider) Shutdown() error {
	if ret := nvml.Shutdown(); ret != nvml.SUCCESS {
		return fmt.Errorf("NVML shutdown failed: %v", nvml.ErrorString(ret))
	}
	return nil
}

func (p *NVMLProvider) DeviceCount() (int, error) {
	count, ret := nvml.DeviceGetCount()
	if ret != nvml.SUCCESS {
		return 0, fmt.Errorf("device count: %v", nvml.ErrorString(ret))
	}
	return count, nil
}

func (p *NVMLProvider) DeviceInfo(index int) (DeviceInfo, error) {
	device, ret := nvml.DeviceGetHandleByIndex(index)
	if ret != nvml.SUCCESS {
		return DeviceInfo{}, fmt.Errorf("device handle %d: %v", index, nvml.ErrorString(ret))
	}
	uuid, _ := device.GetUUID()
	name, _ := device.GetName()
	memInfo, _ := device.GetMemoryInfo()
	driver, _ := nvml.SystemGetDriverVersion()
	return DeviceInfo{
		Index:         index,
		UUID:          uuid,
		Name:          name,
		MemoryTotalMB: memInfo.Total / (1024 * 1024),
		MemoryUsedMB:  memInfo.Used / (1024 * 1024),
		DriverVersion: driver,
	}, nil
}

// Compile-time interface check
var _ Provider = (*NVMLProvider)(nil)
