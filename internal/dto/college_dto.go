package dto

type CreateCollegeRequest struct {
	Name         string   `json:"name" binding:"required,min=2,max=150"`
	ProfilePic   string   `json:"profile_pic" binding:"omitempty,url"`
	Location     string   `json:"location" binding:"omitempty,max=150"`
	Description  string   `json:"description"`
	EmailDomains []string `json:"email_domains" binding:"omitempty,dive,fqdn"`

	Founded       int    `json:"founded" binding:"omitempty,min=1000,max=2100"`
	TotalStudents int    `json:"total_students" binding:"omitempty,min=0"`
	CollegeType   string `json:"college_type" binding:"omitempty,max=50"`
}

type UpdateCollegeRequest struct {
	Name        string `json:"name" binding:"omitempty,min=2,max=150"`
	ProfilePic  string `json:"profile_pic" binding:"omitempty,url"`
	Location    string `json:"location" binding:"omitempty,max=150"`
	Description string `json:"description"`

	// Ratings on a 1-5 scale.
	Safety            int `json:"safety" binding:"omitempty,min=1,max=5"`
	Healthcare        int `json:"healthcare" binding:"omitempty,min=1,max=5"`
	QualityOfTeaching int `json:"quality_of_teaching" binding:"omitempty,min=1,max=5"`
	CampusCulture     int `json:"campus_culture" binding:"omitempty,min=1,max=5"`
	StudentSupport    int `json:"student_support" binding:"omitempty,min=1,max=5"`
	Affordability     int `json:"affordability" binding:"omitempty,min=1,max=5"`
	Placements        int `json:"placements" binding:"omitempty,min=1,max=5"`
}
