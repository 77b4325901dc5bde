package shotplan

var fallbackPoses = map[Gender]map[PoseCategory][]string{
	GenderFemale: {
		PoseRandom: {
			"Standing with one hand on hip, weight shifted to left leg",
			"Hands in pockets, relaxed stance",
			"Arms crossed casually",
			"One hand touching hair",
		},
		PoseAngled: {
			"Body rotated 45 degrees to the right, looking over shoulder",
			"Three-quarter turn to the left, hands on hips",
			"Slight rotation showing side profile",
		},
	},
	GenderMale: {
		PoseRandom: {
			"Standing with hands in pockets, shoulders relaxed",
			"Arms at sides, weight on one leg",
			"One hand in pocket, other relaxed",
			"Hands clasped in front",
		},
		PoseAngled: {
			"Body rotated 45 degrees to the right, looking at camera",
			"Three-quarter turn to the left, hands in pockets",
			"Slight rotation showing side profile",
		},
	},
}
