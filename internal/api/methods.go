package api

import "net/http"

// Method is a Spot API method name, appended to the endpoint URL.
type Method string

const (
	MethodPing           Method = "util.ping"
	MethodGetProfile     Method = "user.get_profile"
	MethodAuthPassword   Method = "auth.get_user_pass_auth_token"
	MethodAuthExternal   Method = "auth.get_google_auth_token"
	MethodBookmarkPost   Method = "bookmark.post"
	MethodWirePost       Method = "thewire.post"
	MethodPhotosPost     Method = "photos.post"
	MethodPhotosFinalize Method = "photos.finalize.post"
	MethodAlbumsList     Method = "albums.list"
)

// Methods lists every method the client can build requests for.
var Methods = []Method{
	MethodPing,
	MethodGetProfile,
	MethodAuthPassword,
	MethodAuthExternal,
	MethodBookmarkPost,
	MethodWirePost,
	MethodPhotosPost,
	MethodPhotosFinalize,
	MethodAlbumsList,
}

// Valid reports whether m is a known method.
func (m Method) Valid() bool {
	for _, known := range Methods {
		if m == known {
			return true
		}
	}
	return false
}

// HTTPMethod returns the verb a method is called with.
func (m Method) HTTPMethod() string {
	switch m {
	case MethodPing, MethodGetProfile, MethodAlbumsList:
		return http.MethodGet
	default:
		return http.MethodPost
	}
}

func (m Method) String() string {
	return string(m)
}
