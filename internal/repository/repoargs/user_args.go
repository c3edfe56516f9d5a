package repoargs

type CreateUser struct {
	Name         string
	Email        string
	PasswordHash string
	Role         string
	Phone        string
}

type CreateStudent struct {
	ParentUserID int64
	Name         string
	Age          *int32
	AvatarURL    string
}
