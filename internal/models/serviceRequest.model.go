package models

type ApplianceType string

const (
	ApplianceFridge         ApplianceType = "fridge"
	ApplianceWashingMachine ApplianceType = "washing-machine"
	ApplianceFilter         ApplianceType = "filter"
	ApplianceOven           ApplianceType = "oven"
	ApplianceDishwasher     ApplianceType = "dishwasher"
	ApplianceOther          ApplianceType = "other"
)

var ApplianceTypes = []ApplianceType{
	ApplianceFridge,
	ApplianceWashingMachine,
	ApplianceFilter,
	ApplianceOven,
	ApplianceDishwasher,
	ApplianceOther,
}

func (a ApplianceType) Valid() bool {
	for _, known := range ApplianceTypes {
		if a == known {
			return true
		}
	}
	return false
}

type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in-progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

var Statuses = []Status{StatusPending, StatusInProgress, StatusCompleted, StatusCancelled}

func (s Status) Valid() bool {
	for _, known := range Statuses {
		if s == known {
			return true
		}
	}
	return false
}

type ServiceRequest struct {
	BaseUUIDModel
	ApplianceType    ApplianceType `gorm:"type:varchar(32);not null;index"               json:"applianceType"`
	IssueDescription string        `gorm:"type:text;not null"                            json:"issueDescription"`
	ContactName      string        `gorm:"type:varchar(255);not null"                    json:"contactName"`
	ContactEmail     string        `gorm:"type:varchar(255);not null"                    json:"contactEmail"`
	ContactPhone     string        `gorm:"type:varchar(64);not null"                     json:"contactPhone"`
	Address          string        `gorm:"type:text;not null"                            json:"address"`
	Status           Status        `gorm:"type:varchar(20);not null;default:'pending'"   json:"status"`
	Notes            string        `gorm:"type:text;not null;default:''"                 json:"notes"`
}

// ServiceRequestInput is a validated submission. The store assigns id, status
// and timestamps.
type ServiceRequestInput struct {
	ApplianceType    ApplianceType `json:"applianceType"`
	IssueDescription string        `json:"issueDescription"`
	ContactName      string        `json:"contactName"`
	ContactEmail     string        `json:"contactEmail"`
	ContactPhone     string        `json:"contactPhone"`
	Address          string        `json:"address"`
}

// ServiceRequestUpdate is a partial update; nil fields are left untouched.
type ServiceRequestUpdate struct {
	Status *Status `json:"status,omitempty"`
	Notes  *string `json:"notes,omitempty"`
}

func (u ServiceRequestUpdate) Empty() bool {
	return u.Status == nil && u.Notes == nil
}

type ServiceRequestForm struct {
	ApplianceType    string `json:"applianceType"    form:"applianceType"`
	IssueDescription string `json:"issueDescription" form:"issueDescription"`
	ContactName      string `json:"contactName"      form:"contactName"`
	ContactEmail     string `json:"contactEmail"     form:"contactEmail"`
	ContactPhone     string `json:"contactPhone"     form:"contactPhone"`
	Address          string `json:"address"          form:"address"`
}

func (f ServiceRequestForm) Raw() map[string]string {
	return map[string]string{
		"applianceType":    f.ApplianceType,
		"issueDescription": f.IssueDescription,
		"contactName":      f.ContactName,
		"contactEmail":     f.ContactEmail,
		"contactPhone":     f.ContactPhone,
		"address":          f.Address,
	}
}

type UpdateServiceRequestRequest struct {
	Status *string `json:"status" form:"status"`
	Notes  *string `json:"notes"  form:"notes"`
}
