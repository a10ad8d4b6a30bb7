package api

// Service accessors group Client methods by Spot namespace.
// Each service embeds *Client so it can build and send requests.

type UtilService struct{ *Client }

type AuthService struct{ *Client }

type ProfileService struct{ *Client }

type BookmarksService struct{ *Client }

type WireService struct{ *Client }

type PhotosService struct{ *Client }

type AlbumsService struct{ *Client }

func (c *Client) Util() UtilService {
	return UtilService{c}
}

func (c *Client) Auth() AuthService {
	return AuthService{c}
}

func (c *Client) Profile() ProfileService {
	return ProfileService{c}
}

func (c *Client) Bookmarks() BookmarksService {
	return BookmarksService{c}
}

func (c *Client) Wire() WireService {
	return WireService{c}
}

func (c *Client) Photos() PhotosService {
	return PhotosService{c}
}

func (c *Client) Albums() AlbumsService {
	return AlbumsService{c}
}
