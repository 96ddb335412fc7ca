package highlights

// DefaultKeywords is the built-in excitement vocabulary (Indonesian and
// English). Matching is a lowercase substring test, so short entries like
// "so" or "ez" also fire inside longer words. Override it from config.
func DefaultKeywords() []string {
	return []string{
		// podcast reactions and opinions
		"wah", "wow", "gila", "parah", "ngeri", "sadis", "kacau",
		"menarik", "unik", "mindblowing", "dalem banget",
		"kena banget", "relate", "jujur", "asli", "sumpah",
		"gue setuju", "gue gak setuju", "menurut gue",
		"fakta", "realita", "realistis", "kenyataan",
		"berat nih", "panas nih", "ini serius",
		"plot twist", "unexpected", "di luar dugaan",

		// story and insight hooks
		"tahu gak", "tau gak", "pernah kepikiran",
		"pernah ngalamin", "pernah denger",
		"coba bayangin", "bayangkan",
		"kenapa bisa", "kok bisa",
		"menariknya", "yang bikin kaget",
		"yang jarang dibahas", "yang orang gak sadar",
		"masalahnya", "intinya", "point pentingnya",

		// gaming hype
		"anjay", "anjir", "buset", "gilak", "gokil",
		"auto panik", "auto kaget", "auto ngakak",
		"pecah", "meledak", "rusuh", "chaos",
		"clutch", "epic", "legendary", "insane",
		"crazy", "no way", "holy", "wtf",
		"clean", "perfect", "smooth",

		// gameplay moments
		"headshot", "one tap", "one shot",
		"ace", "wipe", "team wipe",
		"gg", "ggwp", "ez", "ez win",
		"throw", "blunder", "fail",
		"outplay", "comeback", "turnaround",
		"last second", "detik terakhir",
		"sisa satu", "tinggal satu",

		// universal hooks
		"lihat ini", "coba lihat",
		"percaya gak", "siap-siap",
		"fokus", "dengerin",
		"tunggu", "bentar",
		"gimana menurut lo", "menurut kalian",

		// intensifiers
		"banget", "parah banget", "gila banget",
		"sangat", "sekali",
		"bener-bener", "serius",
		"really", "very", "so", "extremely",
		"literally", "totally",
	}
}

// DefaultQuestionMarkers trigger the question/hook signal.
func DefaultQuestionMarkers() []string {
	return []string{
		"?", "gimana", "bagaimana", "kenapa", "mengapa",
		"how", "what", "why", "tahu gak", "tau gak",
	}
}
