package engine

import (
	"sync/atomic"
	"time"

	"panelxd/pkg/types"
)

// Snapshot returns a read-only view of the engine state.
func (e *Engine) Snapshot() Snapshot {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return Snapshot{State: e.state, Err: e.err}
}

// Status builds a detailed status response for /status.
func (e *Engine) Status() types.StatusResponse {
	e.mu.RLock()
	defer e.mu.RUnlock()
	now := time.Now()
	resp := types.StatusResponse{
		State:          string(e.state),
		LastError:      e.err,
		UptimeSeconds:  int64(now.Sub(e.startTime).Seconds()),
		ServerTimeUnix: now.Unix(),
	}
	if e.device != nil {
		info := e.device.Info()
		resp.Device = &types.DeviceStatus{
			Index:         info.Index,
			UUID:          info.UUID,
			Name:          info.Name,
			MemoryTotalMB: info.MemoryTotalMB,
			MemoryUsedMB:  info.MemoryUsedMB,
			DriverVersion: info.DriverVersion,
		}
	}
	resp.Pipelines = make([]types.PipelineStatus, 0, len(e.pipelines))
	for _, id := range []string{"chat", "story", "image"} {
		p, ok := e.pipelines[id]
		if !ok {
			continue
		}
		resp.Pipelines = append(resp.Pipelines, types.PipelineStatus{
			ID:               p.ID,
			State:            string(p.State),
			LastUsed:         p.LastUsed.Unix(),
			QueueLen:         len(p.queueCh),
			Inflight:         len(p.genCh),
			MaxQueueDepth:    cap(p.queueCh),
			GenerationsTotal: atomic.LoadUint64(&p.generations),
		})
	}
	return resp
}
