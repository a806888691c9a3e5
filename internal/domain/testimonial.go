package domain

import (
	"time"
)

// Testimonial type constants.
const (
	TypeText  = "text"
	TypeVideo = "video"
)

// Testimonial status constants.
const (
	StatusPending = "pending"
	StatusPublic  = "public"
	StatusHidden  = "hidden"
)

// Testimonial is a stored record: indexed scoping columns plus the
// semi-structured document payload.
type Testimonial struct {
	ID         string    `json:"id"`
	OwnerID    string    `json:"owner_id"`
	ProjectID  string    `json:"project_id"`
	CustomerID *string   `json:"customer_id,omitempty"`
	Type       string    `json:"type"`
	Status     string    `json:"status"`
	Document   Document  `json:"document"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// ValidTypes returns the set of valid testimonial types.
func ValidTypes() []string {
	return []string{TypeText, TypeVideo}
}

// IsValidType checks whether the given string is a valid testimonial type.
func IsValidType(t string) bool {
	for _, v := range ValidTypes() {
		if v == t {
			return true
		}
	}
	return false
}

// ValidStatuses returns the set of valid testimonial statuses.
func ValidStatuses() []string {
	return []string{StatusPending, StatusPublic, StatusHidden}
}

// IsValidStatus checks whether the given string is a valid testimonial status.
func IsValidStatus(status string) bool {
	for _, s := range ValidStatuses() {
		if s == status {
			return true
		}
	}
	return false
}

// DefaultRating is applied when a document carries no rating at all.
// A rating of zero is a real rating and is preserved.
const DefaultRating = 5

// AnonymousAuthor is the author name shown when the document has none.
const AnonymousAuthor = "Anonymous"

// ViewModel is the stable testimonial shape consumed by callers. Synthetic
// fields (display date, attachments, video thumbnail) are derived from the
// document by ViewModelFrom.
type ViewModel struct {
	ID         string  `json:"id"`
	ProjectID  string  `json:"project_id"`
	CustomerID *string `json:"customer_id,omitempty"`
	Type       string  `json:"type"`
	Status     string  `json:"status"`

	AuthorName     string `json:"author_name"`
	AuthorHeadline string `json:"author_headline,omitempty"`
	Email          string `json:"email,omitempty"`

	Title   string `json:"title,omitempty"`
	Message string `json:"message,omitempty"`
	Rating  int    `json:"rating"`
	Source  string `json:"source,omitempty"`

	DisplayDate time.Time `json:"display_date"`

	CompanyName    string `json:"company_name,omitempty"`
	CompanyTitle   string `json:"company_title,omitempty"`
	CompanyWebsite string `json:"company_website,omitempty"`

	AvatarURL      string `json:"avatar_url,omitempty"`
	VideoURL       string `json:"video_url,omitempty"`
	VideoThumbnail string `json:"video_thumbnail,omitempty"`

	Attachments []Attachment `json:"attachments"`

	VideoTrim       *VideoTrim `json:"video_trim,omitempty"`
	OriginalPostURL string     `json:"original_post_url,omitempty"`
	Tags            []string   `json:"tags,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ViewModelFrom derives the caller-facing view model from a stored record.
// It is a pure function of its input: no field access may fail on an absent
// document field, and repeated calls produce identical output.
//
// Derivation rules:
//   - author name falls back to AnonymousAuthor
//   - rating falls back to DefaultRating only when entirely absent (zero is kept)
//   - attachments are assembled in fixed order: company logo, then for video
//     records the selected thumbnail and the video reference, then the
//     document's own attachments
//   - video thumbnail is the thumbnails entry at the selected index (default 0)
//   - display date is the document's date override or the creation time
func ViewModelFrom(t *Testimonial) ViewModel {
	doc := &t.Document

	vm := ViewModel{
		ID:         t.ID,
		ProjectID:  t.ProjectID,
		CustomerID: t.CustomerID,
		Type:       t.Type,
		Status:     t.Status,

		AuthorName:     AnonymousAuthor,
		AuthorHeadline: strOrEmpty(doc.AuthorHeadline),
		Email:          strOrEmpty(doc.Email),

		Title:   strOrEmpty(doc.Title),
		Message: strOrEmpty(doc.Message),
		Rating:  DefaultRating,
		Source:  strOrEmpty(doc.Source),

		DisplayDate: t.CreatedAt,

		AvatarURL:      doc.AvatarURL(),
		VideoURL:       doc.VideoRef(),
		VideoThumbnail: doc.SelectedThumbnail(),

		VideoTrim:       doc.VideoTrim,
		OriginalPostURL: strOrEmpty(doc.OriginalPostURL),
		Tags:            doc.Tags,

		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}

	if doc.AuthorName != nil && *doc.AuthorName != "" {
		vm.AuthorName = *doc.AuthorName
	}
	if doc.Rating != nil {
		vm.Rating = *doc.Rating
	}
	if doc.Date != nil {
		vm.DisplayDate = *doc.Date
	}
	if doc.Company != nil {
		vm.CompanyName = strOrEmpty(doc.Company.Name)
		vm.CompanyTitle = strOrEmpty(doc.Company.Title)
		vm.CompanyWebsite = strOrEmpty(doc.Company.Website)
	}

	vm.Attachments = assembleAttachments(t)

	return vm
}

// assembleAttachments builds the flattened attachment list in the documented
// order: company logo first, then (for video records) the selected thumbnail
// and the video reference, then the generic attachments array.
func assembleAttachments(t *Testimonial) []Attachment {
	doc := &t.Document
	attachments := []Attachment{}

	if logo := doc.CompanyLogo(); logo != "" {
		attachments = append(attachments, Attachment{Type: AttachmentTypeImage, URL: logo})
	}

	if t.Type == TypeVideo {
		if thumb := doc.SelectedThumbnail(); thumb != "" {
			attachments = append(attachments, Attachment{Type: AttachmentTypeImage, URL: thumb})
		}
		if video := doc.VideoRef(); video != "" {
			attachments = append(attachments, Attachment{Type: AttachmentTypeVideo, URL: video})
		}
	}

	attachments = append(attachments, doc.Attachments...)

	return attachments
}
