// Package actions decodes and applies the named mutations of the data API.
package actions

import (
	"github.com/zaqqye/signage_backend/internal/models"
)

// Name is the wire name of an action.
type Name string

const (
	NameGetDashboardData       Name = "GET_DASHBOARD_DATA"
	NameClearVisualizationData Name = "CLEAR_VISUALIZATION_DATA"
	NameUpdateSettings         Name = "UPDATE_SETTINGS"
	NameCreateUser             Name = "CREATE_USER"
	NameUpdateUser             Name = "UPDATE_USER"
	NameDeleteUser             Name = "DELETE_USER"
	NameCreateMedia            Name = "CREATE_MEDIA"
	NameUpdateMedia            Name = "UPDATE_MEDIA"
	NameDeleteMedia            Name = "DELETE_MEDIA"
	NameBulkDeleteMedia        Name = "BULK_DELETE_MEDIA"
	NameCreatePlaylist         Name = "CREATE_PLAYLIST"
	NameUpdatePlaylist         Name = "UPDATE_PLAYLIST"
	NameDeletePlaylist         Name = "DELETE_PLAYLIST"
	NameCreateDevice           Name = "CREATE_DEVICE"
	NameUpdateDevice           Name = "UPDATE_DEVICE"
	NameDeleteDevice           Name = "DELETE_DEVICE"
)

// Action is one decoded request. The set of implementations is closed.
type Action interface {
	ActionName() Name
	sealed()
}

// Mutation is an Action that changes the content document.
type Mutation interface {
	Action
	mutates()
}

type GetDashboardData struct{}

type ClearVisualizationData struct{}

type UpdateSettings struct {
	models.SettingsPatch
}

type CreateUser struct {
	User     string `json:"user" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type UpdateUser struct {
	OriginalUser string `json:"originalUser" validate:"required"`
	User         string `json:"user" validate:"required"`
	// Password is only changed when non-empty.
	Password string `json:"password"`
}

type DeleteUser struct {
	User string `json:"user" validate:"required"`
}

type CreateMedia struct {
	models.MediaItem
}

type UpdateMedia struct {
	ID      FlexibleString    `json:"id" validate:"required"`
	Updates models.MediaPatch `json:"updates"`
}

type DeleteMedia struct {
	ID FlexibleString `json:"id" validate:"required"`
}

type BulkDeleteMedia struct {
	IDs []FlexibleString `json:"ids" validate:"required"`
}

type CreatePlaylist struct {
	Name       string                `json:"name" validate:"required"`
	Items      []models.PlaylistItem `json:"items" validate:"dive"`
	Transition models.Transition     `json:"transition"`
}

type UpdatePlaylist struct {
	ID      FlexibleString       `json:"id" validate:"required"`
	Updates models.PlaylistPatch `json:"updates"`
}

type DeletePlaylist struct {
	ID FlexibleString `json:"id" validate:"required"`
}

type CreateDevice struct {
	Name       string         `json:"name" validate:"required"`
	PlaylistID FlexibleString `json:"playlistId"`
}

type UpdateDevice struct {
	ID      FlexibleString     `json:"id" validate:"required"`
	Updates models.DevicePatch `json:"updates"`
}

type DeleteDevice struct {
	ID FlexibleString `json:"id" validate:"required"`
}

func (GetDashboardData) ActionName() Name       { return NameGetDashboardData }
func (ClearVisualizationData) ActionName() Name { return NameClearVisualizationData }
func (UpdateSettings) ActionName() Name         { return NameUpdateSettings }
func (CreateUser) ActionName() Name             { return NameCreateUser }
func (UpdateUser) ActionName() Name             { return NameUpdateUser }
func (DeleteUser) ActionName() Name             { return NameDeleteUser }
func (CreateMedia) ActionName() Name            { return NameCreateMedia }
func (UpdateMedia) ActionName() Name            { return NameUpdateMedia }
func (DeleteMedia) ActionName() Name            { return NameDeleteMedia }
func (BulkDeleteMedia) ActionName() Name        { return NameBulkDeleteMedia }
func (CreatePlaylist) ActionName() Name         { return NameCreatePlaylist }
func (UpdatePlaylist) ActionName() Name         { return NameUpdatePlaylist }
func (DeletePlaylist) ActionName() Name         { return NameDeletePlaylist }
func (CreateDevice) ActionName() Name           { return NameCreateDevice }
func (UpdateDevice) ActionName() Name           { return NameUpdateDevice }
func (DeleteDevice) ActionName() Name           { return NameDeleteDevice }

func (GetDashboardData) sealed()       {}
func (ClearVisualizationData) sealed() {}
func (UpdateSettings) sealed()         {}
func (CreateUser) sealed()             {}
func (UpdateUser) sealed()             {}
func (DeleteUser) sealed()             {}
func (CreateMedia) sealed()            {}
func (UpdateMedia) sealed()            {}
func (DeleteMedia) sealed()            {}
func (BulkDeleteMedia) sealed()        {}
func (CreatePlaylist) sealed()         {}
func (UpdatePlaylist) sealed()         {}
func (DeletePlaylist) sealed()         {}
func (CreateDevice) sealed()           {}
func (UpdateDevice) sealed()           {}
func (DeleteDevice) sealed()           {}

func (UpdateSettings) mutates()  {}
func (CreateUser) mutates()      {}
func (UpdateUser) mutates()      {}
func (DeleteUser) mutates()      {}
func (CreateMedia) mutates()     {}
func (UpdateMedia) mutates()     {}
func (DeleteMedia) mutates()     {}
func (BulkDeleteMedia) mutates() {}
func (CreatePlaylist) mutates()  {}
func (UpdatePlaylist) mutates()  {}
func (DeletePlaylist) mutates()  {}
func (CreateDevice) mutates()    {}
func (UpdateDevice) mutates()    {}
func (DeleteDevice) mutates()    {}
