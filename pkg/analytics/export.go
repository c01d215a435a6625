package analytics

import "github.com/simeonmiteff/netsim/pkg/exporter"

// ReadOnlyStatsAt adapts ReadOnlyStats to pkg/exporter's Source interface,
// letting Manager be registered directly with a prometheus.Collector
// without pkg/exporter depending on pkg/analytics or pkg/wire.
func (m *Manager) ReadOnlyStatsAt(nowUs int64) (exporter.GlobalStats, []exporter.EdgeStats) {
	stats := m.ReadOnlyStats(nowUs)

	global := exporter.GlobalStats{
		TotalNodes:   uint64(stats.TotalNodes),
		TotalEdges:   uint64(stats.TotalEdges),
		TotalPackets: stats.TotalPackets,
		TotalBytes:   stats.TotalBytes,
		AggregatePps: stats.AggregatePps,
		AggregateBps: stats.AggregateBps,
	}

	edges := make([]exporter.EdgeStats, 0, len(stats.Edges))
	for _, e := range stats.Edges {
		edges = append(edges, exporter.EdgeStats{
			Id:            e.Id,
			Pps:           e.Pps,
			Bps:           e.Bps,
			EwmaLatencyUs: e.EwmaLatencyUs,
			EwmaJitterUs:  e.EwmaJitterUs,
			LossRate:      e.LossRate,
		})
	}
	return global, edges
}
