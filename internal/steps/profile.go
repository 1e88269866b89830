package steps

import (
	"context"
	"strconv"
	"strings"

	"github.com/kapu/collabhub-go/internal/domain"
	"github.com/kapu/collabhub-go/internal/validation"
)

// InitialProfileCompletion is the completion reported for a freshly onboarded creator.
const InitialProfileCompletion = 85

type SampleWorkInput struct {
	File        domain.FileRef   `json:"file"`
	Type        domain.MediaType `json:"type,omitempty"`
	Description string           `json:"description"`
}

// ProfileCreationForm is the last influencer step. Accepting it creates the
// influencer profile in the store.
type ProfileCreationForm struct {
	ProfileImage *domain.FileRef   `json:"profileImage,omitempty"`
	Bio          string            `json:"bio"`
	Tags         []string          `json:"tags"`
	SampleWorks  []SampleWorkInput `json:"sampleWorks"`
}

func newProfileCreation(domain.UserType) Form {
	return &ProfileCreationForm{}
}

func (f *ProfileCreationForm) Kind() domain.StepKind {
	return domain.StepProfileCreation
}

// normalize drops blank and repeated tags.
func (f *ProfileCreationForm) normalize() {
	seen := make(map[string]struct{}, len(f.Tags))
	tags := make([]string, 0, len(f.Tags))
	for _, t := range f.Tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		tags = append(tags, t)
	}
	f.Tags = tags
}

func (f *ProfileCreationForm) resolveFiles(files FileLookup) {
	f.ProfileImage = resolveRef(f.ProfileImage, files)
	for i := range f.SampleWorks {
		ref := resolveRef(&f.SampleWorks[i].File, files)
		if ref == nil {
			f.SampleWorks[i].File = domain.FileRef{}
			continue
		}
		f.SampleWorks[i].File = *ref
	}
}

// uploadedWorks returns the sample works that carry a file, with media types
// filled in from the file when the client sent none.
func (f *ProfileCreationForm) uploadedWorks() []SampleWorkInput {
	works := make([]SampleWorkInput, 0, len(f.SampleWorks))
	for _, w := range f.SampleWorks {
		if !hasFile(&w.File) {
			continue
		}
		if w.Type == "" {
			w.Type = MediaTypeFor(w.File.ContentType)
		}
		works = append(works, w)
	}
	return works
}

// MediaTypeFor classifies an upload: video/* is a video, anything else an image.
func MediaTypeFor(contentType string) domain.MediaType {
	if strings.HasPrefix(contentType, "video/") {
		return domain.MediaVideo
	}
	return domain.MediaImage
}

func (f *ProfileCreationForm) Validate() validation.Errors {
	errs := validation.Errors{}
	errs.Check("bio", validation.Bio(f.Bio))
	errs.Check("tags", validation.Tags(f.Tags))
	errs.Check("sampleWorks", validation.SampleWorks(len(f.uploadedWorks())))
	return errs
}

func (f *ProfileCreationForm) Payload() (domain.Data, error) {
	works := f.uploadedWorks()
	tags := make([]string, len(f.Tags))
	copy(tags, f.Tags)
	return domain.Data{
		domain.KeyProfileImage: fileValue(f.ProfileImage),
		domain.KeyBio:          f.Bio,
		domain.KeyTags:         tags,
		domain.KeySampleWorks:  works,
	}, nil
}

// Profile builds the new influencer profile. Identity fields come from the
// sign-up data; audience numbers and earnings start at zero.
func (f *ProfileCreationForm) Profile(env CommitEnv) domain.InfluencerProfile {
	uploaded := f.uploadedWorks()
	works := make([]domain.SampleWork, 0, len(uploaded))
	for i, w := range uploaded {
		file := w.File
		works = append(works, domain.SampleWork{
			ID:          strconv.Itoa(i + 1),
			Type:        w.Type,
			URL:         fileURL(env, &file),
			Description: w.Description,
		})
	}
	tags := make([]string, len(f.Tags))
	copy(tags, f.Tags)

	return domain.InfluencerProfile{
		ID:                domain.NewID(),
		Name:              env.Data.String(domain.KeyFullName),
		Email:             env.Data.String(domain.KeyEmail),
		Phone:             env.Data.String(domain.KeyPhone),
		Bio:               f.Bio,
		ProfileImage:      fileURL(env, f.ProfileImage),
		SocialAccounts:    handlesFrom(env.Data),
		ProfileCompletion: InitialProfileCompletion,
		Tags:              tags,
		SampleWorks:       works,
		Campaigns:         []domain.InfluencerCampaign{},
	}
}

func (f *ProfileCreationForm) Commit(ctx context.Context, env CommitEnv) error {
	p := f.Profile(env)
	return env.Store.SetInfluencerProfile(ctx, &p)
}

// handlesFrom picks the usernames of connected accounts from the social step.
func handlesFrom(data domain.Data) domain.SocialHandles {
	var h domain.SocialHandles
	accounts, _ := data[domain.KeySocialAccounts].([]domain.SocialAccount)
	for _, a := range accounts {
		if !a.Connected {
			continue
		}
		switch a.Platform {
		case domain.PlatformInstagram:
			h.Instagram = a.Username
		case domain.PlatformYouTube:
			h.YouTube = a.Username
		case domain.PlatformTwitter:
			h.Twitter = a.Username
		}
	}
	return h
}
