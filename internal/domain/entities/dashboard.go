package entities

// DashboardStats holds the admin dashboard counters
type DashboardStats struct {
	TotalUsers          int64 `json:"totalUsers"`
	TotalAppointments   int64 `json:"totalAppointments"`
	PendingAppointments int64 `json:"pendingAppointments"`
	TotalNurses         int64 `json:"totalNurses"`
	TotalBlogs          int64 `json:"totalBlogs"`
}
