package model

import "time"

// HomeDocument is the typed view of the home domain.
type HomeDocument struct {
	SiteTitle         string       `json:"siteTitle"`
	Hero              Hero         `json:"hero"`
	AboutSummary      AboutSummary `json:"aboutSummary"`
	CTA               CallToAction `json:"cta"`
	FeaturedMemberIDs []string     `json:"featuredMemberIds"`
}

type Hero struct {
	Headline        string `json:"headline"`
	Description     string `json:"description"`
	Button1Text     string `json:"button1Text"`
	Button1Link     string `json:"button1Link"`
	Button2Text     string `json:"button2Text"`
	Button2Link     string `json:"button2Link"`
	BackgroundImage string `json:"backgroundImage"`
}

type AboutSummary struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	ButtonText  string `json:"buttonText"`
	ButtonLink  string `json:"buttonLink"`
}

type CallToAction struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Button1Text string `json:"button1Text"`
	Button1Link string `json:"button1Link"`
	Button2Text string `json:"button2Text"`
	Button2Link string `json:"button2Link"`
}

// MaxFeaturedMembers bounds HomeDocument.FeaturedMemberIDs.
const MaxFeaturedMembers = 3

// AboutDocument sections hold markdown.
type AboutDocument struct {
	Title   string   `json:"title"`
	AboutUs string   `json:"aboutUs"`
	Mission string   `json:"mission"`
	Vision  string   `json:"vision"`
	History string   `json:"history"`
	Values  []string `json:"values"`
}

type ContactDocument struct {
	Email              string      `json:"email"`
	Phone              string      `json:"phone"`
	Address            string      `json:"address"`
	MapEmbedURL        string      `json:"mapEmbedUrl"`
	MapEnabled         bool        `json:"mapEnabled"`
	FormEnabled        bool        `json:"formEnabled"`
	ContactHeadline    string      `json:"contactHeadline"`
	ContactDescription string      `json:"contactDescription"`
	SocialLinks        SocialLinks `json:"socialLinks"`
}

type SocialLinks struct {
	Facebook string `json:"facebook,omitempty"`
	Twitter  string `json:"twitter,omitempty"`
	LinkedIn string `json:"linkedin,omitempty"`
}

type MembersDocument struct {
	Headline     string     `json:"headline"`
	Description  string     `json:"description"`
	CallToAction string     `json:"callToAction"`
	Members      []Member   `json:"members"`
	UpdatedAt    *time.Time `json:"updatedAt,omitempty"`
}

type Member struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Role     string `json:"role"`
	Bio      string `json:"bio"`
	ImageURL string `json:"imageUrl,omitempty"`
}

// FindMember returns the member with id, if present.
func (d *MembersDocument) FindMember(id string) (Member, bool) {
	for _, m := range d.Members {
		if m.ID == id {
			return m, true
		}
	}
	return Member{}, false
}
