package domain

import "time"

type SampleType string

const (
	SampleTypeBlood  SampleType = "blood"
	SampleTypeSaliva SampleType = "saliva"
	SampleTypeTissue SampleType = "tissue"
)

type SampleStatus string

const (
	SampleStatusCollected  SampleStatus = "collected"
	SampleStatusProcessing SampleStatus = "processing"
	SampleStatusArchived   SampleStatus = "archived"
)

// Valid reports whether t is one of the known sample types.
func (t SampleType) Valid() bool {
	switch t {
	case SampleTypeBlood, SampleTypeSaliva, SampleTypeTissue:
		return true
	}
	return false
}

// Valid reports whether s is one of the known sample statuses.
func (s SampleStatus) Valid() bool {
	switch s {
	case SampleStatusCollected, SampleStatusProcessing, SampleStatusArchived:
		return true
	}
	return false
}

// Sample is a research sample record held in the sample store.
type Sample struct {
	SampleID        string       `json:"sample_id"`
	SampleType      SampleType   `json:"sample_type"`
	SubjectID       string       `json:"subject_id"`
	CollectionDate  time.Time    `json:"collection_date"`
	Status          SampleStatus `json:"status"`
	StorageLocation string       `json:"storage_location"`
}

// SampleFilter narrows a sample listing. Zero values match everything.
type SampleFilter struct {
	SampleType SampleType
	Status     SampleStatus
}

// Matches reports whether s satisfies every non-empty criterion of f.
func (f SampleFilter) Matches(s Sample) bool {
	if f.SampleType != "" && s.SampleType != f.SampleType {
		return false
	}
	if f.Status != "" && s.Status != f.Status {
		return false
	}
	return true
}

// SampleUpdate carries a partial update; nil fields are left untouched.
type SampleUpdate struct {
	SampleType      *SampleType
	SubjectID       *string
	CollectionDate  *time.Time
	Status          *SampleStatus
	StorageLocation *string
}

// Apply returns a copy of s with the non-nil fields of u written over it.
func (u SampleUpdate) Apply(s Sample) Sample {
	if u.SampleType != nil {
		s.SampleType = *u.SampleType
	}
	if u.SubjectID != nil {
		s.SubjectID = *u.SubjectID
	}
	if u.CollectionDate != nil {
		s.CollectionDate = u.CollectionDate.UTC()
	}
	if u.Status != nil {
		s.Status = *u.Status
	}
	if u.StorageLocation != nil {
		s.StorageLocation = *u.StorageLocation
	}
	return s
}
