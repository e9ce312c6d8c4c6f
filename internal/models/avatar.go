package models

import (
	"crypto/md5"
	"fmt"
	"strings"
)

// AvatarURL строит gravatar-URL по email: чистая функция, без состояния
func AvatarURL(email string, size int) string {
	digest := md5.Sum([]byte(strings.ToLower(strings.TrimSpace(email))))
	return fmt.Sprintf("https://www.gravatar.com/avatar/%x?d=identicon&s=%d", digest, size)
}

func (u *User) Avatar(size int) string {
	return AvatarURL(u.Email, size)
}

// AuthorAvatar - аватар автора поста для шаблонов ленты
func (p *Post) AuthorAvatar(size int) string {
	return AvatarURL(p.AuthorEmail, size)
}
