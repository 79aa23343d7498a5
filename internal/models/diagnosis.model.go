package models

type DiagnosisQuery struct {
	ApplianceType    ApplianceType `json:"applianceType"`
	IssueDescription string        `json:"issueDescription"`
}

type Diagnosis struct {
	PossibleCauses  []string `json:"possibleCauses"`
	ConfidenceLevel string   `json:"confidenceLevel"`
}

type DiagnosisForm struct {
	ApplianceType    string `json:"applianceType"    form:"applianceType"`
	IssueDescription string `json:"issueDescription" form:"issueDescription"`
}

func (f DiagnosisForm) Raw() map[string]string {
	return map[string]string{
		"applianceType":    f.ApplianceType,
		"issueDescription": f.IssueDescription,
	}
}
