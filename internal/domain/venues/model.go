package venues

import "time"

type Venue struct {
	ID string `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`

	Name         string  `gorm:"type:text;not null;index" json:"name"`
	AddressLine1 string  `gorm:"column:address_line_1;type:text;not null" json:"address_line_1"`
	AddressLine2 *string `gorm:"column:address_line_2;type:text" json:"address_line_2,omitempty"`
	City         *string `gorm:"type:text" json:"city,omitempty"`

	Rating  *float64 `json:"rating,omitempty"`
	Reviews *int     `json:"reviews,omitempty"`

	GoogleLink  *string `gorm:"column:google_link;type:text" json:"google_link,omitempty"`
	MapImageURL *string `gorm:"column:map_image_url;type:text" json:"map_image_url,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
