package models

// HealthRecord 历史生理数据记录（含落库时的 emergency_mode / is_anomaly 标记）
type HealthRecord struct {
	ID                   int     `json:"id"`
	Timestamp            string  `json:"timestamp"`
	HeartRate            int     `json:"heart_rate"`
	BloodOxygen          float64 `json:"blood_oxygen"`
	Temperature          float64 `json:"temperature"`
	ActivityLevel        int     `json:"activity_level"`
	SleepQuality         int     `json:"sleep_quality"`
	StressLevel          int     `json:"stress_level"`
	RestingHeartRate     int     `json:"resting_heart_rate"`
	HeartRateVariability float64 `json:"heart_rate_variability"`
	HealthScore          float64 `json:"health_score"`
	IsAnomaly            bool    `json:"is_anomaly"`
	EmergencyMode        bool    `json:"emergency_mode"`
}

// HealthHistory GET /health-history 响应
type HealthHistory struct {
	Success      bool           `json:"success"`
	TotalRecords int            `json:"total_records"`
	Data         []HealthRecord `json:"data"`
}

// ScanRecord 指纹扫描历史记录
type ScanRecord struct {
	ID          int    `json:"id"`
	Timestamp   string `json:"timestamp"`
	ScanType    string `json:"scan_type"` // normal / emergency
	IsEmergency bool   `json:"is_emergency"`
	SessionID   string `json:"session_id"`
}

// ScanHistory GET /scan-history 响应
type ScanHistory struct {
	Success    bool         `json:"success"`
	TotalScans int          `json:"total_scans"`
	Data       []ScanRecord `json:"data"`
}
