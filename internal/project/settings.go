// Package project renders the project-level files of a generated Django
// backend: settings, root URL table, the Authentication app and the landing
// page.
//
// Settings are built once from the complete list of generated apps and
// written whole. Nothing here reads or patches an existing settings file.
package project

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/google/uuid"
)

// AuthApp is the app holding the custom user model.
const AuthApp = "Authentication"

// UserModel is the custom user model class of AuthApp.
const UserModel = "ApplicationUser"

// frameworkApps precede the generated apps in INSTALLED_APPS.
var frameworkApps = []string{
	"jazzmin",
	"django.contrib.admin",
	"django.contrib.auth",
	"django.contrib.contenttypes",
	"django.contrib.sessions",
	"django.contrib.messages",
	"django.contrib.staticfiles",
	"rest_framework",
}

// secretNamespace seeds the development secret key.
var secretNamespace = uuid.MustParse("6f1d7c3a-2b8e-4a59-9d0c-5e4b3a2f1c7d")

// Options tunes the generated settings.
type Options struct {
	Debug        bool
	AllowedHosts []string
	TimeZone     string
	LanguageCode string
	Theme        string
	Python       string
}

// DefaultOptions returns development settings.
func DefaultOptions() Options {
	return Options{
		Debug:        true,
		AllowedHosts: []string{},
		TimeZone:     "UTC",
		LanguageCode: "en-us",
		Theme:        "sketchy",
		Python:       "python",
	}
}

// Database describes the default database of the project.
type Database struct {
	Engine string
	Name   string
}

// AdminSite holds the Jazzmin branding of the admin.
type AdminSite struct {
	Title   string
	Header  string
	Welcome string
	Theme   string
	Accent  string
	Navbar  string
	Sidebar string
}

// Settings is the complete configuration of one generated project.
type Settings struct {
	ProjectName   string
	SecretKey     string
	Debug         bool
	AllowedHosts  []string
	InstalledApps []string
	GeneratedApps []string
	Database      Database
	AuthUserModel string
	TimeZone      string
	LanguageCode  string
	Admin         AdminSite
	Python        string
}

// NewSettings builds the settings of projectName with apps installed in the
// given order after the framework apps and before the Authentication app.
func NewSettings(projectName string, apps []string, opts Options) Settings {
	generated := make([]string, 0, len(apps))
	for _, a := range apps {
		if a != AuthApp {
			generated = append(generated, a)
		}
	}
	installed := make([]string, 0, len(frameworkApps)+len(generated)+1)
	installed = append(installed, frameworkApps...)
	installed = append(installed, generated...)
	installed = append(installed, AuthApp)

	hosts := opts.AllowedHosts
	if hosts == nil {
		hosts = []string{}
	}
	theme := opts.Theme
	if theme == "" {
		theme = "sketchy"
	}
	python := opts.Python
	if python == "" {
		python = "python"
	}

	return Settings{
		ProjectName:   projectName,
		SecretKey:     SecretKey(projectName),
		Debug:         opts.Debug,
		AllowedHosts:  hosts,
		InstalledApps: installed,
		GeneratedApps: generated,
		Database:      Database{Engine: "django.db.backends.sqlite3", Name: "db.sqlite3"},
		AuthUserModel: AuthApp + "." + UserModel,
		TimeZone:      valueOr(opts.TimeZone, "UTC"),
		LanguageCode:  valueOr(opts.LanguageCode, "en-us"),
		Admin: AdminSite{
			Title:   projectName + " Admin",
			Header:  projectName + " - Platform Admin",
			Welcome: "Welcome to " + projectName,
			Theme:   theme,
			Accent:  "accent-indigo",
			Navbar:  "navbar-indigo navbar-light",
			Sidebar: "sidebar-dark-indigo",
		},
		Python: python,
	}
}

// SecretKey derives the development secret key of a project. The same name
// always yields the same key so regenerated settings stay byte-identical.
func SecretKey(projectName string) string {
	id := uuid.NewSHA1(secretNamespace, []byte(projectName))
	sum := sha256.Sum256([]byte(id.String()))
	return "django-insecure-" + strings.ReplaceAll(id.String(), "-", "") + hex.EncodeToString(sum[:])[:18]
}

func valueOr(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
