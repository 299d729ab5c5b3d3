package dto

import "time"

type ExpiringContract struct {
	RentalID     string `json:"rental_id"`
	PropertyID   string `json:"property_id"`
	PropertyName string `json:"property_name"`
	EndDate      string `json:"end_date"`
	DaysLeft     int    `json:"days_left"`
}

type ActivityResponse struct {
	ID           string    `json:"id"`
	PropertyID   string    `json:"property_id"`
	PropertyName string    `json:"property_name,omitempty"`
	ActivityType string    `json:"activity_type"`
	Message      string    `json:"message"`
	Timestamp    time.Time `json:"timestamp"`
}

// PaymentStatusChart: данные для диаграммы статусов
type PaymentStatusChart struct {
	Paid    int64 `json:"paid"`
	Pending int64 `json:"pending"`
	Overdue int64 `json:"overdue"`
}

type DashboardResponse struct {
	AvailableProperties []PropertyResponse     `json:"available_properties"`
	RentedProperties    []PropertyResponse     `json:"rented_properties"`
	ExpiringContracts   []ExpiringContract     `json:"expiring_contracts"`
	UpcomingPayments    []UpcomingPayment      `json:"upcoming_payments"`
	RecentActivities    []ActivityResponse     `json:"recent_activities"`
	Notifications       []NotificationResponse `json:"notifications"`
	UnreadCount         int64                  `json:"unread_count"`
	MonthlyRevenue      map[string]int64       `json:"monthly_revenue"`
	PaymentStatus       PaymentStatusChart     `json:"payment_status"`
}
