package catalog

const defaultFallbackIcon = "image1.png"

var defaultIcons = []string{
	"image1.png", "image6.png",
	"image7.png", "image8.png", "image9.png", "image10.png",
	"image11.png", "image12.png", "image13.png", "image14.png",
	"image15.png", "image16.png", "image17.png", "image18.png",
	"image19.png",
}

var defaultParagraphs = []string{
	"The quick brown fox jumps over the lazy dog, and then it keeps running across the field because the race is not over until every sentence has been typed without a single mistake.",
	"Practice makes perfect. Every race is a chance to type a little faster and a little cleaner than the last one, so keep your eyes on the text and let your fingers find the keys.",
	"Imagine a keyboard that laughs at every typo. In this race speed meets humor, and each slip of the finger becomes part of a story that only you and your opponents will ever read.",
	"It was the best of times, it was the worst of times. Channel your inner author and race against the clock through a passage that feels like it came straight from an old library shelf.",
	"Your keystrokes are brushstrokes on the canvas of success. With every word typed you build something out of determination and skill, one letter at a time.",
	"Long before keyboards, scribes copied whole books by hand with ink and quills. Today you carry that tradition forward, only much faster and with a lot less ink on your sleeves.",
	"In the digital world every keystroke is a command and every error is a small bug to fix. Stay calm, keep a steady rhythm, and the words will follow.",
	"Each tap on the keyboard is a step toward the finish line. Breathe, focus on the next word instead of the last mistake, and let the rhythm carry you home.",
}
