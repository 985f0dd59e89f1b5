package models

import (
	"math"
	"time"
)

// UserWithRoles is the admin projection of a user and its role names.
type UserWithRoles struct {
	ID       uint     `json:"id"`
	Username string   `json:"username"`
	Roles    []string `json:"roles"`
}

// PhotoForApproval is the moderation queue projection of a photo.
type PhotoForApproval struct {
	ID         uint   `json:"id"`
	URL        string `json:"url"`
	Username   string `json:"username"`
	IsApproved bool   `json:"isApproved"`
}

// MemberDTO is the public summary of a user returned by member listings.
type MemberDTO struct {
	ID         uint      `json:"id"`
	Username   string    `json:"username"`
	KnownAs    string    `json:"knownAs"`
	Age        int       `json:"age"`
	PhotoURL   string    `json:"photoUrl"`
	Gender     string    `json:"gender"`
	City       string    `json:"city"`
	Country    string    `json:"country"`
	LastActive time.Time `json:"lastActive"`
}

// NewMemberDTO projects a user, preferring its main photo for PhotoURL.
func NewMemberDTO(u *User, now time.Time) MemberDTO {
	dto := MemberDTO{
		ID:         u.ID,
		Username:   u.Username,
		KnownAs:    u.KnownAs,
		Age:        u.Age(now),
		Gender:     u.Gender,
		City:       u.City,
		Country:    u.Country,
		LastActive: u.LastActive,
	}
	if main := u.MainPhoto(); main != nil {
		dto.PhotoURL = main.URL
	}
	return dto
}

// AccountDTO is returned by register and login.
type AccountDTO struct {
	Username string `json:"username"`
	KnownAs  string `json:"knownAs"`
	Token    string `json:"token"`
	PhotoURL string `json:"photoUrl,omitempty"`
}

// MessageDTO is the client projection of a direct message.
type MessageDTO struct {
	ID                uint       `json:"id"`
	SenderID          uint       `json:"senderId"`
	SenderUsername    string     `json:"senderUsername"`
	RecipientID       uint       `json:"recipientId"`
	RecipientUsername string     `json:"recipientUsername"`
	Content           string     `json:"content"`
	DateRead          *time.Time `json:"dateRead,omitempty"`
	MessageSent       time.Time  `json:"messageSent"`
}

// NewMessageDTO projects a message.
func NewMessageDTO(m *Message) MessageDTO {
	return MessageDTO{
		ID:                m.ID,
		SenderID:          m.SenderID,
		SenderUsername:    m.SenderUsername,
		RecipientID:       m.RecipientID,
		RecipientUsername: m.RecipientUsername,
		Content:           m.Content,
		DateRead:          m.DateRead,
		MessageSent:       m.MessageSent,
	}
}

// PaginationHeader is the JSON value of the Pagination response header.
type PaginationHeader struct {
	CurrentPage  int   `json:"currentPage"`
	ItemsPerPage int   `json:"itemsPerPage"`
	TotalItems   int64 `json:"totalItems"`
	TotalPages   int   `json:"totalPages"`
}

// PagedList is one page of items plus the pagination metadata, kept apart
// from the items so transports can deliver it out of band.
type PagedList[T any] struct {
	Items       []T
	CurrentPage int
	PageSize    int
	TotalCount  int64
	TotalPages  int
}

// NewPagedList builds a page and computes TotalPages from the total count.
func NewPagedList[T any](items []T, count int64, pageNumber, pageSize int) PagedList[T] {
	totalPages := 0
	if pageSize > 0 {
		totalPages = int(math.Ceil(float64(count) / float64(pageSize)))
	}
	if items == nil {
		items = []T{}
	}
	return PagedList[T]{
		Items:       items,
		CurrentPage: pageNumber,
		PageSize:    pageSize,
		TotalCount:  count,
		TotalPages:  totalPages,
	}
}

// Header returns the pagination metadata in header form.
func (p PagedList[T]) Header() PaginationHeader {
	return PaginationHeader{
		CurrentPage:  p.CurrentPage,
		ItemsPerPage: p.PageSize,
		TotalItems:   p.TotalCount,
		TotalPages:   p.TotalPages,
	}
}
