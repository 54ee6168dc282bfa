package i18n

// Key names a user-facing message.
type Key string

const (
	AvailableVenues      Key = "available_venues"
	Registering          Key = "registering"
	Register             Key = "register"
	OpenMaps             Key = "open_maps"
	RegisteredPeople     Key = "registered_people"
	NoneRegistered       Key = "none_registered"
	BackToVenues         Key = "back_to_venues"
	FinishRegistering    Key = "finish_registering"
	AddPerson            Key = "add_person"
	CheckForm            Key = "check_form"
	NameInput            Key = "name_input"
	LocationInput        Key = "location_input"
	PhoneInput           Key = "phone_input"
	NameRequired         Key = "name_required"
	LocationRequired     Key = "location_required"
	PhoneMalformed       Key = "phone_malformed"
	PhoneTaken           Key = "phone_taken"
	PhoneRepeated        Key = "phone_repeated"
	RegisterSuccessful   Key = "register_successful"
	UnregisterSuccessful Key = "unregister_successful"
	RegistrationChanged  Key = "registration_changed"
	TooManyPeople        Key = "too_many_people"
	Unregister           Key = "unregister"
	Opens                Key = "opens"
	NameLabel            Key = "name_label"
	LocationLabel        Key = "location_label"
	PhoneLabel           Key = "phone_label"
	BannerAlt            Key = "banner_alt"
)

var messages = map[Language]map[Key]string{
	English: {
		AvailableVenues:      "Available Venues",
		Registering:          "Registering",
		Register:             "Register",
		OpenMaps:             "Open in Maps",
		RegisteredPeople:     "Registered People",
		NoneRegistered:       "No one has registered yet",
		BackToVenues:         "Back to venues",
		FinishRegistering:    "Finish registering",
		AddPerson:            "+",
		CheckForm:            "Check",
		NameInput:            "Name",
		LocationInput:        "Location",
		PhoneInput:           "Phone number",
		NameRequired:         "A name is required",
		LocationRequired:     "A location is required",
		PhoneMalformed:       "Enter a phone number such as 555-0100",
		PhoneTaken:           "This phone number is already registered",
		PhoneRepeated:        "This phone number is used more than once",
		RegisterSuccessful:   "Registration successful",
		UnregisterSuccessful: "Successfully removed registration",
		RegistrationChanged:  "That registration changed, please try again",
		TooManyPeople:        "Too many people in one registration, please split it",
		Unregister:           "Remove",
		Opens:                "Opens at",
		NameLabel:            "Name",
		LocationLabel:        "Location",
		PhoneLabel:           "Phone Number",
		BannerAlt:            "Banner for",
	},
	Romanian: {
		AvailableVenues:      "Locații disponibile",
		Registering:          "Înscriere",
		Register:             "Înscrie-te",
		OpenMaps:             "Deschide în hărți",
		RegisteredPeople:     "Persoane înscrise",
		NoneRegistered:       "Nu s-a înscris nimeni încă",
		BackToVenues:         "Înapoi la locații",
		FinishRegistering:    "Finalizează înscrierea",
		AddPerson:            "+",
		CheckForm:            "Verifică",
		NameInput:            "Nume",
		LocationInput:        "Localitate",
		PhoneInput:           "Număr de telefon",
		NameRequired:         "Numele este obligatoriu",
		LocationRequired:     "Localitatea este obligatorie",
		PhoneMalformed:       "Număr de telefon invalid",
		PhoneTaken:           "Acest număr de telefon este deja înscris",
		PhoneRepeated:        "Acest număr de telefon apare de mai multe ori",
		RegisterSuccessful:   "Înscriere reușită",
		UnregisterSuccessful: "Înscrierea a fost ștearsă",
		RegistrationChanged:  "Înscrierea s-a modificat, încearcă din nou",
		TooManyPeople:        "Prea multe persoane într-o singură înscriere, împarte-o",
		Unregister:           "Șterge",
		Opens:                "Deschis de la",
		NameLabel:            "Nume",
		LocationLabel:        "Localitate",
		PhoneLabel:           "Telefon",
		BannerAlt:            "Imagine pentru",
	},
}

// T returns the message for key in lang, falling back to English and then
// to the key itself.
func T(lang Language, key Key) string {
	if msg, ok := messages[lang][key]; ok {
		return msg
	}
	if msg, ok := messages[English][key]; ok {
		return msg
	}
	return string(key)
}
