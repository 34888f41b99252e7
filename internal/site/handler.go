package site

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"net/url"
	"time"

	"welfare-cms/internal/content/domain/model"
	"welfare-cms/internal/shared/logger"
	"welfare-cms/internal/site/config"

	"github.com/gofiber/fiber/v2"
)

// FetchNotice is shown when a page falls back to built-in content.
const FetchNotice = "Some content could not be loaded. Showing default information."

const (
	msgSubmitted    = "Submission received successfully!"
	msgSubmitFailed = "We could not send your message. Please try again later."
	msgFormDisabled = "The contact form is currently disabled."
)

// PageData is passed to every template.
type PageData struct {
	Title     string
	SiteTitle string
	Path      string
	Notice    string
	Flash     *Flash

	Home    *HomeView
	About   *AboutView
	Contact *ContactView
	Members *MembersView
	Member  *MemberView
	Albums  []AlbumView
	Album   *AlbumView
}

type Flash struct {
	Success bool
	Message string
}

type HomeView struct {
	Doc       *model.HomeDocument
	HeroImage string
	Featured  []MemberView
}

type AboutView struct {
	Title    string
	Sections []AboutSection
	Values   []string
}

type AboutSection struct {
	Heading string
	Body    template.HTML
}

type ContactView struct {
	Doc  *model.ContactDocument
	Form model.SubmissionInput
}

type MembersView struct {
	Doc     *model.MembersDocument
	Members []MemberView
}

// MemberView is a member with its slug and a policy-checked image.
type MemberView struct {
	model.Member
	Slug  string
	Image string
}

// AlbumView is an album with its policy-checked images.
type AlbumView struct {
	model.Album
	Cover  string
	Count  int
	Images []ImageView
}

type ImageView struct {
	URL     string
	Caption string
	Date    string
}

// Handler renders the public pages from a ContentSource.
type Handler struct {
	source    ContentSource
	engine    *TemplateEngine
	images    *ImagePolicy
	markdown  *Renderer
	maxAge    time.Duration
	siteTitle string
	log       logger.Logger
}

// NewHandler parses the templates and image patterns.
func NewHandler(source ContentSource, cfg *config.Config, log logger.Logger) (*Handler, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if log == nil {
		log = logger.Nop()
	}
	engine, err := NewTemplateEngine()
	if err != nil {
		return nil, err
	}
	images, err := NewImagePolicy(cfg.RemotePatterns)
	if err != nil {
		return nil, err
	}

	var home model.HomeDocument
	if err := model.DecodeDefaults(model.DomainHome, &home); err != nil {
		return nil, fmt.Errorf("decode home defaults: %w", err)
	}

	return &Handler{
		source:    source,
		engine:    engine,
		images:    images,
		markdown:  NewRenderer(),
		maxAge:    cfg.PageMaxAge,
		siteTitle: home.SiteTitle,
		log:       log.WithComponent("site"),
	}, nil
}

// RegisterRoutes mounts the public pages. submitGuards run before the contact
// form is forwarded, typically a rate limiter.
func (h *Handler) RegisterRoutes(router fiber.Router, submitGuards ...fiber.Handler) {
	router.Get("/", h.HomePage)
	router.Get("/home", h.HomePage)
	router.Get("/about", h.AboutPage)
	router.Get("/contact", h.ContactPage)
	router.Post("/contact", append(submitGuards, h.ContactSubmit)...)
	router.Get("/members", h.MembersPage)
	router.Get("/members/:slug", h.MemberPage)
	router.Get("/gallery", h.GalleryPage)
	router.Get("/gallery/:albumId", h.AlbumPage)
}

// load fetches a document and falls back to the domain defaults on error.
func load[T any](ctx context.Context, h *Handler, domain model.Domain, fetch func(context.Context) (*T, error)) (*T, bool) {
	doc, err := fetch(ctx)
	if err == nil {
		return doc, true
	}
	h.log.WithContext(ctx).WithFields(map[string]interface{}{
		"domain": domain,
		"error":  err.Error(),
	}).Warn("Content fetch failed, rendering defaults")

	fallback := new(T)
	if derr := model.DecodeDefaults(domain, fallback); derr != nil {
		h.log.WithFields(map[string]interface{}{"domain": domain, "error": derr.Error()}).Error("Failed to decode defaults")
	}
	return fallback, false
}

func (h *Handler) page(c *fiber.Ctx, title string) *PageData {
	return &PageData{Title: title, SiteTitle: h.siteTitle, Path: c.Path()}
}

func (h *Handler) render(c *fiber.Ctx, status int, name string, data *PageData) error {
	c.Type("html", "utf-8")
	if status == fiber.StatusOK && c.Method() == fiber.MethodGet && data.Notice == "" {
		c.Set(fiber.HeaderCacheControl, fmt.Sprintf("public, max-age=%d", int(h.maxAge.Seconds())))
	} else {
		c.Set(fiber.HeaderCacheControl, "no-store")
	}
	c.Status(status)
	if err := h.engine.RenderTo(c, name, data); err != nil {
		h.log.WithContext(c.UserContext()).WithFields(map[string]interface{}{
			"template": name,
			"error":    err.Error(),
		}).Error("Template rendering failed")
		return fiber.NewError(fiber.StatusInternalServerError, "render failed")
	}
	return nil
}

func (h *Handler) notFound(c *fiber.Ctx, data *PageData) error {
	data.Title = "Page not found"
	return h.render(c, fiber.StatusNotFound, "not_found.html", data)
}

func (h *Handler) memberViews(members []model.Member) []MemberView {
	out := make([]MemberView, 0, len(members))
	for _, m := range members {
		out = append(out, MemberView{Member: m, Slug: Slugify(m.Name), Image: h.images.Resolve(m.ImageURL)})
	}
	return out
}

func (h *Handler) HomePage(c *fiber.Ctx) error {
	ctx := c.UserContext()
	data := h.page(c, "Home")

	home, ok := load(ctx, h, model.DomainHome, h.source.Home)
	if !ok {
		data.Notice = FetchNotice
	}
	if home.SiteTitle != "" {
		data.SiteTitle = home.SiteTitle
	}

	view := &HomeView{Doc: home, HeroImage: h.images.Resolve(home.Hero.BackgroundImage)}
	if len(home.FeaturedMemberIDs) > 0 {
		if members, err := h.source.Members(ctx); err == nil {
			for _, id := range home.FeaturedMemberIDs {
				if m, found := members.FindMember(id); found {
					view.Featured = append(view.Featured, h.memberViews([]model.Member{m})...)
				}
			}
		} else {
			h.log.WithContext(ctx).WithFields(map[string]interface{}{"error": err.Error()}).Warn("Featured members unavailable")
		}
	}
	data.Home = view
	return h.render(c, fiber.StatusOK, "home.html", data)
}

func (h *Handler) AboutPage(c *fiber.Ctx) error {
	ctx := c.UserContext()
	data := h.page(c, "About")

	about, ok := load(ctx, h, model.DomainAbout, h.source.About)
	if !ok {
		data.Notice = FetchNotice
	}

	view := &AboutView{Title: about.Title, Values: about.Values}
	for _, s := range []struct{ heading, body string }{
		{"About Us", about.AboutUs},
		{"Our Mission", about.Mission},
		{"Our Vision", about.Vision},
		{"Our History", about.History},
	} {
		if body := h.markdown.Render(s.body); body != "" {
			view.Sections = append(view.Sections, AboutSection{Heading: s.heading, Body: body})
		}
	}
	if view.Title != "" {
		data.Title = view.Title
	}
	data.About = view
	return h.render(c, fiber.StatusOK, "about.html", data)
}

func (h *Handler) ContactPage(c *fiber.Ctx) error {
	ctx := c.UserContext()
	data := h.page(c, "Contact")

	contact, ok := load(ctx, h, model.DomainContact, h.source.Contact)
	if !ok {
		data.Notice = FetchNotice
	}
	data.Contact = &ContactView{Doc: contact}
	return h.render(c, fiber.StatusOK, "contact.html", data)
}

// ContactSubmit forwards the form to the submission API and re-renders the
// page with the outcome.
func (h *Handler) ContactSubmit(c *fiber.Ctx) error {
	ctx := WithClientIP(c.UserContext(), c.IP())
	data := h.page(c, "Contact")

	contact, ok := load(ctx, h, model.DomainContact, h.source.Contact)
	if !ok {
		data.Notice = FetchNotice
	}
	view := &ContactView{Doc: contact}
	data.Contact = view

	var in model.SubmissionInput
	if err := c.BodyParser(&in); err != nil {
		data.Flash = &Flash{Message: "Invalid form submission."}
		return h.render(c, fiber.StatusBadRequest, "contact.html", data)
	}
	view.Form = in

	if ok && !contact.FormEnabled {
		data.Flash = &Flash{Message: msgFormDisabled}
		return h.render(c, fiber.StatusForbidden, "contact.html", data)
	}

	if _, err := h.source.Submit(ctx, in); err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.Status == fiber.StatusBadRequest && apiErr.Message != "" {
			data.Flash = &Flash{Message: apiErr.Message}
			return h.render(c, fiber.StatusBadRequest, "contact.html", data)
		}
		h.log.WithContext(ctx).WithFields(map[string]interface{}{"error": err.Error()}).Error("Contact submission failed")
		data.Flash = &Flash{Message: msgSubmitFailed}
		return h.render(c, fiber.StatusBadGateway, "contact.html", data)
	}

	view.Form = model.SubmissionInput{}
	data.Flash = &Flash{Success: true, Message: msgSubmitted}
	return h.render(c, fiber.StatusOK, "contact.html", data)
}

func (h *Handler) MembersPage(c *fiber.Ctx) error {
	ctx := c.UserContext()
	data := h.page(c, "Members")

	members, ok := load(ctx, h, model.DomainMembers, h.source.Members)
	if !ok {
		data.Notice = FetchNotice
	}
	data.Members = &MembersView{Doc: members, Members: h.memberViews(members.Members)}
	return h.render(c, fiber.StatusOK, "members.html", data)
}

func (h *Handler) MemberPage(c *fiber.Ctx) error {
	ctx := c.UserContext()
	data := h.page(c, "Member")

	slug, err := url.PathUnescape(c.Params("slug"))
	if err != nil {
		return h.notFound(c, data)
	}

	members, ok := load(ctx, h, model.DomainMembers, h.source.Members)
	if !ok {
		data.Notice = FetchNotice
	}
	for _, m := range h.memberViews(members.Members) {
		if m.Slug == slug {
			data.Title = m.Name
			data.Member = &m
			return h.render(c, fiber.StatusOK, "member.html", data)
		}
	}
	return h.notFound(c, data)
}

func (h *Handler) albumView(g *model.Gallery, album model.Album, withImages bool) AlbumView {
	images := g.ImagesFor(album.ID)
	view := AlbumView{Album: album, Count: len(images), Cover: PlaceholderImage}
	if len(images) > 0 {
		view.Cover = h.images.Resolve(images[0].URL)
	}
	if withImages {
		for _, img := range images {
			view.Images = append(view.Images, ImageView{URL: h.images.Resolve(img.URL), Caption: img.Caption, Date: img.Date})
		}
	}
	return view
}

func (h *Handler) GalleryPage(c *fiber.Ctx) error {
	ctx := c.UserContext()
	data := h.page(c, "Gallery")

	gallery, ok := load(ctx, h, model.DomainGallery, h.source.Gallery)
	if !ok {
		data.Notice = FetchNotice
	}
	data.Albums = make([]AlbumView, 0, len(gallery.Albums))
	for _, a := range gallery.Albums {
		data.Albums = append(data.Albums, h.albumView(gallery, a, false))
	}
	return h.render(c, fiber.StatusOK, "gallery.html", data)
}

func (h *Handler) AlbumPage(c *fiber.Ctx) error {
	ctx := c.UserContext()
	data := h.page(c, "Gallery")

	gallery, ok := load(ctx, h, model.DomainGallery, h.source.Gallery)
	if !ok {
		data.Notice = FetchNotice
	}
	album, found := gallery.FindAlbum(c.Params("albumId"))
	if !found {
		return h.notFound(c, data)
	}
	view := h.albumView(gallery, album, true)
	data.Title = album.AlbumName
	data.Album = &view
	return h.render(c, fiber.StatusOK, "album.html", data)
}
