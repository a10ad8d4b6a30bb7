package api

import "context"

// Get gets the signed-in user's profile. A rejected token yields an error
// for which IsSignOutError reports true.
func (s ProfileService) Get(ctx context.Context) (*Profile, error) {
	resp, err := s.call(ctx, MethodGetProfile, nil)
	if err != nil {
		return nil, err
	}

	var result Profile
	if err := resp.Decode(&result); err != nil {
		return nil, err
	}
	return &result, nil
}
