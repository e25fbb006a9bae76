package main

// Stat is one of the highlight figures in the about section.
type Stat struct {
	Number string
	Label  string
	Icon   string
}

// ContactInfo is shown in the contact section.
type ContactInfo struct {
	Address   string
	Phone     string
	Email     string
	Facebook  string
	Instagram string
}

var (
	SiteName = "MyPortfolio"

	NavSections = []string{"home", "about", "gallery", "contact"}

	HeroTitle = "Crafting Visual Stories"

	HeroTagline = `I'm a passionate Graphic Designer focused on creating compelling and
	modern visuals that elevate brands and engage audiences.`

	AboutMe = `I'm a passionate graphic designer turned frontend developer with a keen eye for
	aesthetics and user experience. I specialize in creating visually stunning interfaces that
	not only look great but also provide intuitive user interactions. My journey combines
	creative design principles with modern web technologies to deliver exceptional digital experiences.`

	AboutStats = []Stat{
		{Number: "50+", Label: "Projects Completed", Icon: "📊"},
		{Number: "3+", Label: "Years Experience", Icon: "🕒"},
		{Number: "100%", Label: "Client Satisfaction", Icon: "⭐"},
	}

	GalleryIntro = `A collection of precious moments captured in time, each polaroid
	telling its own unique story`

	ArtworkCaption = "A beautiful piece from my digital art collection"

	Contact = ContactInfo{
		Address:   "123 Main Street, Springfield, USA",
		Phone:     "+1 (555) 123-4567",
		Email:     "contact@example.com",
		Facebook:  "https://www.facebook.com/yourprofile",
		Instagram: "https://www.instagram.com/yourprofile",
	}
)
