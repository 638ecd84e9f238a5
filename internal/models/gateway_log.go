package models

// GatewayLog maps to the `gateway_log` table, the host-visible audit trail of
// gateway decisions.
type GatewayLog struct {
	ID      uint   `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Module  string `gorm:"column:module;size:64" json:"module"`
	Message string `gorm:"column:message;type:text" json:"message"`
	Status  string `gorm:"column:status;size:32" json:"status"` // Successful, Unsuccessful, Information
	Time    string `gorm:"column:time;size:64" json:"time"`
}

func (GatewayLog) TableName() string {
	return "gateway_log"
}
