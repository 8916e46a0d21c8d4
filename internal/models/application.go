package models

// Application is an application registered in the portal.
type Application struct {
	PK              string `json:"pk"`
	Slug            string `json:"slug"`
	Name            string `json:"name"`
	Group           string `json:"group,omitempty"`
	MetaLaunchURL   string `json:"meta_launch_url,omitempty"`
	MetaDescription string `json:"meta_description,omitempty"`
	MetaPublisher   string `json:"meta_publisher,omitempty"`
	MetaIcon        string `json:"meta_icon,omitempty"`
}

// Portal field names this tool writes.
const (
	FieldMetaDescription = "meta_description"
	FieldMetaPublisher   = "meta_publisher"
)
