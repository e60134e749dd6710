package dtos

// StatsRequest optionally narrows statistics to issues whose raise
// date falls inside one calendar month ("2006-01").
type StatsRequest struct {
	Month string `json:"month"`
}

// RegionStatusStat is one region+status bucket with the per-type
// breakdown folded in as a map.
type RegionStatusStat struct {
	Region     string         `json:"region"`
	Status     string         `json:"status"`
	Count      int            `json:"count"`
	TypeCounts map[string]int `json:"typeCounts,omitempty"`
}

// RegionStatusTypeStat is the finer-grained bucket used to fold type
// counts into RegionStatusStat.
type RegionStatusTypeStat struct {
	Region string `json:"region"`
	Status string `json:"status"`
	Type   string `json:"type"`
	Count  int    `json:"count"`
}

type StatusStat struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
}

type StatsResponse struct {
	Success      bool               `json:"success"`
	RegionStats  []RegionStatusStat `json:"regionStats"`
	OverallStats []StatusStat       `json:"overallStats"`
	Total        int                `json:"total"`
}
