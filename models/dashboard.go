package models

import "time"

type Activity struct {
	Type      string    `json:"type"`
	FormID    string    `json:"formId"`
	FormTitle string    `json:"formTitle"`
	Count     int       `json:"count"`
	Timestamp time.Time `json:"timestamp"`
}

type DashboardStats struct {
	TotalForms              int        `json:"totalForms"`
	TotalResponses          int        `json:"totalResponses"`
	ExpiringIDs             int        `json:"expiringIds"`
	RecentResponses         int        `json:"recentResponses"`
	ActiveForms             int        `json:"activeFormsCount"`
	AverageResponsesPerForm int        `json:"averageResponsesPerForm"`
	RecentActivity          []Activity `json:"recentActivity"`
}
