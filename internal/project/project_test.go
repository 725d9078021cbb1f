package project

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSettings_InstalledAppsOrder(t *testing.T) {
	s := NewSettings("Shop", []string{"Catalog", "Orders", AuthApp}, DefaultOptions())

	assert.Equal(t, []string{"Catalog", "Orders"}, s.GeneratedApps)
	n := len(s.InstalledApps)
	assert.Equal(t, []string{"Catalog", "Orders", AuthApp}, s.InstalledApps[n-3:])
	assert.Equal(t, "jazzmin", s.InstalledApps[0])
	assert.Contains(t, s.InstalledApps, "rest_framework")
	assert.Equal(t, "Authentication.ApplicationUser", s.AuthUserModel)
}

func TestSecretKey_Deterministic(t *testing.T) {
	a := SecretKey("Shop")
	assert.Equal(t, a, SecretKey("Shop"))
	assert.NotEqual(t, a, SecretKey("Blog"))
	assert.True(t, strings.HasPrefix(a, "django-insecure-"))
	assert.GreaterOrEqual(t, len(a)-len("django-insecure-"), 50)
}

func TestRenderSettings(t *testing.T) {
	s := NewSettings("Shop", []string{"Catalog"}, DefaultOptions())
	out, err := RenderSettings(s)
	require.NoError(t, err)
	src := string(out)

	assert.Contains(t, src, "ROOT_URLCONF = 'Shop.urls'")
	assert.Contains(t, src, "DEBUG = True")
	assert.Contains(t, src, "ALLOWED_HOSTS = []")
	assert.Contains(t, src, "    \"Catalog\",\n    \"Authentication\",\n]")
	assert.Contains(t, src, `AUTH_USER_MODEL = "Authentication.ApplicationUser"`)
	assert.Contains(t, src, `'NAME': BASE_DIR / "db.sqlite3"`)
	assert.Contains(t, src, `"theme": "sketchy"`)
	assert.NotContains(t, src, "<no value>")
}

func TestRenderRootURLs(t *testing.T) {
	s := NewSettings("Shop", []string{"Catalog", "Orders"}, DefaultOptions())
	out, err := RenderRootURLs(s)
	require.NoError(t, err)
	src := string(out)

	assert.Contains(t, src, "    path('Catalog/', include('Catalog.urls')),\n    path('Orders/', include('Orders.urls')),\n")
	assert.Contains(t, src, "TemplateView.as_view(template_name='index.html')")
	assert.NotContains(t, src, "Authentication.urls")
}

func TestNextSteps(t *testing.T) {
	opts := DefaultOptions()
	opts.Python = "python3"
	md, err := NextSteps(NewSettings("Shop", []string{"Catalog"}, opts))
	require.NoError(t, err)
	assert.Contains(t, md, "cd Shop\npython3 manage.py makemigrations\n")
	assert.Contains(t, md, "`Catalog` at `/Catalog/`")
}

func TestWriteProject(t *testing.T) {
	base := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(base, "Shop"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(base, "Shop", "settings.py"), []byte("SECRET_KEY = 'old'\n"), 0o644))

	s := NewSettings("Shop", []string{"Catalog"}, DefaultOptions())
	written, err := WriteProject(base, s)
	require.NoError(t, err)
	require.Len(t, written, 2)

	first, err := os.ReadFile(filepath.Join(base, "Shop", "settings.py"))
	require.NoError(t, err)
	assert.NotContains(t, string(first), "'old'")

	_, err = WriteProject(base, s)
	require.NoError(t, err)
	second, err := os.ReadFile(filepath.Join(base, "Shop", "settings.py"))
	require.NoError(t, err)
	assert.Equal(t, string(first), string(second))
}

func TestWriteProject_MissingPackage(t *testing.T) {
	_, err := WriteProject(t.TempDir(), NewSettings("Ghost", nil, DefaultOptions()))
	assert.Error(t, err)
}

func TestWriteAuthApp(t *testing.T) {
	dir := filepath.Join(t.TempDir(), AuthApp)
	require.NoError(t, os.MkdirAll(dir, 0o755))

	written, err := WriteAuthApp(dir, NewSettings("Shop", []string{"Catalog"}, DefaultOptions()))
	require.NoError(t, err)
	require.Len(t, written, 3)

	models, err := os.ReadFile(filepath.Join(dir, "models.py"))
	require.NoError(t, err)
	assert.Contains(t, string(models), "class ApplicationUser(AbstractUser):")
	assert.Contains(t, string(models), "allowed_extensions=['jpeg', 'jpg', 'png', 'gif']")

	admin, err := os.ReadFile(filepath.Join(dir, "admin.py"))
	require.NoError(t, err)
	assert.Contains(t, string(admin), "admin.site.register(ApplicationUser, ApplicationUserAdmin)")

	index, err := os.ReadFile(filepath.Join(dir, "templates", "index.html"))
	require.NoError(t, err)
	assert.Contains(t, string(index), "<h1 class=\"mb-3\">Shop</h1>")
	assert.Contains(t, string(index), `href="/Catalog/"`)
}
