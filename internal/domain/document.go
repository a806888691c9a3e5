package domain

import (
	"encoding/json"
	"time"
)

// Attachment types.
const (
	AttachmentTypeImage = "image"
	AttachmentTypeVideo = "video"
)

// Attachment is a single media entry in a testimonial document.
type Attachment struct {
	Type string `json:"type"`
	URL  string `json:"url"`
}

// UnmarshalJSON accepts either an object ({"type":...,"url":...}) or a bare
// URL string. Legacy submissions stored attachments as plain strings; those
// decode as image attachments.
func (a *Attachment) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		a.Type = AttachmentTypeImage
		a.URL = s
		return nil
	}

	type attachment Attachment
	var obj attachment
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	*a = Attachment(obj)
	return nil
}

// Company holds the submitter's company details inside a document.
type Company struct {
	Name    *string `json:"name,omitempty"`
	Title   *string `json:"title,omitempty"`
	Website *string `json:"website,omitempty"`
	Logo    *string `json:"logo,omitempty"`
}

// Media holds the avatar and video references inside a document.
type Media struct {
	Avatar *string `json:"avatar,omitempty"`
	Video  *string `json:"video,omitempty"`
}

// VideoTrim marks the playback window of a video testimonial, in seconds.
type VideoTrim struct {
	Start *float64 `json:"start,omitempty"`
	End   *float64 `json:"end,omitempty"`
}

// Document is the semi-structured payload of a testimonial. Every field is
// optional; readers must tolerate absence of any field and apply the defaults
// implemented by ViewModelFrom. The struct round-trips through JSONB.
type Document struct {
	AuthorName     *string `json:"author_name,omitempty"`
	AuthorHeadline *string `json:"author_headline,omitempty"`
	Email          *string `json:"email,omitempty"`

	Title   *string `json:"title,omitempty"`
	Message *string `json:"message,omitempty"`
	Rating  *int    `json:"rating,omitempty"`
	Source  *string `json:"source,omitempty"`

	// Date overrides the display date; when absent the record's creation
	// time is shown instead.
	Date *time.Time `json:"date,omitempty"`

	Company *Company `json:"company,omitempty"`
	Media   *Media   `json:"media,omitempty"`

	Thumbnails             []string `json:"thumbnails,omitempty"`
	SelectedThumbnailIndex *int     `json:"selected_thumbnail_index,omitempty"`

	Attachments []Attachment `json:"attachments,omitempty"`

	VideoTrim       *VideoTrim `json:"video_trim,omitempty"`
	OriginalPostURL *string    `json:"original_post_url,omitempty"`
	Tags            []string   `json:"tags,omitempty"`
}

// CompanyLogo returns the company logo URL, or "" when absent.
func (d *Document) CompanyLogo() string {
	if d.Company == nil || d.Company.Logo == nil {
		return ""
	}
	return *d.Company.Logo
}

// AvatarURL returns the avatar URL, or "" when absent.
func (d *Document) AvatarURL() string {
	if d.Media == nil || d.Media.Avatar == nil {
		return ""
	}
	return *d.Media.Avatar
}

// VideoRef returns the video reference (asset UID or URL), or "" when absent.
func (d *Document) VideoRef() string {
	if d.Media == nil || d.Media.Video == nil {
		return ""
	}
	return *d.Media.Video
}

// SelectedThumbnail returns the thumbnails entry at the selected index
// (default 0), or "" when the array is empty or the index is out of range.
func (d *Document) SelectedThumbnail() string {
	if len(d.Thumbnails) == 0 {
		return ""
	}
	idx := 0
	if d.SelectedThumbnailIndex != nil {
		idx = *d.SelectedThumbnailIndex
	}
	if idx < 0 || idx >= len(d.Thumbnails) {
		return ""
	}
	return d.Thumbnails[idx]
}

// MediaRefs returns every externally hosted media reference in the document:
// avatar, company logo, video reference, all thumbnails, and attachment URLs.
// The deletion orchestrator walks this list during cleanup.
func (d *Document) MediaRefs() []string {
	var refs []string
	if url := d.AvatarURL(); url != "" {
		refs = append(refs, url)
	}
	if url := d.CompanyLogo(); url != "" {
		refs = append(refs, url)
	}
	if ref := d.VideoRef(); ref != "" {
		refs = append(refs, ref)
	}
	refs = append(refs, d.Thumbnails...)
	for _, a := range d.Attachments {
		if a.URL != "" {
			refs = append(refs, a.URL)
		}
	}
	return refs
}

// Merge overlays the non-nil fields of patch onto d and returns the result.
// Sub-objects (company, media, trim) and arrays replace wholesale; a partial
// update that wants to clear a field must send the sub-object without it.
func (d Document) Merge(patch Document) Document {
	out := d

	if patch.AuthorName != nil {
		out.AuthorName = patch.AuthorName
	}
	if patch.AuthorHeadline != nil {
		out.AuthorHeadline = patch.AuthorHeadline
	}
	if patch.Email != nil {
		out.Email = patch.Email
	}
	if patch.Title != nil {
		out.Title = patch.Title
	}
	if patch.Message != nil {
		out.Message = patch.Message
	}
	if patch.Rating != nil {
		out.Rating = patch.Rating
	}
	if patch.Source != nil {
		out.Source = patch.Source
	}
	if patch.Date != nil {
		out.Date = patch.Date
	}
	if patch.Company != nil {
		out.Company = patch.Company
	}
	if patch.Media != nil {
		out.Media = patch.Media
	}
	if patch.Thumbnails != nil {
		out.Thumbnails = patch.Thumbnails
	}
	if patch.SelectedThumbnailIndex != nil {
		out.SelectedThumbnailIndex = patch.SelectedThumbnailIndex
	}
	if patch.Attachments != nil {
		out.Attachments = patch.Attachments
	}
	if patch.VideoTrim != nil {
		out.VideoTrim = patch.VideoTrim
	}
	if patch.OriginalPostURL != nil {
		out.OriginalPostURL = patch.OriginalPostURL
	}
	if patch.Tags != nil {
		out.Tags = patch.Tags
	}

	return out
}

func strOrEmpty(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
